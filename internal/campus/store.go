package campus

import (
	"context"
	"time"
)

// Lookups return (nil, nil) when the document does not exist.

type StudentStore interface {
	CreateStudent(ctx context.Context, s *Student) error
	StudentExists(ctx context.Context, studentID, email string) (bool, error)
	// FindStudent matches identifier against studentId or email.
	FindStudent(ctx context.Context, identifier string) (*Student, error)
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	GetStudentByKey(ctx context.Context, id string) (*Student, error)
	SetStudentPassword(ctx context.Context, id, password string) error
	AddStudentEvent(ctx context.Context, studentID, eventID string) error
	DeleteStudent(ctx context.Context, studentID string) error
	ListStudents(ctx context.Context) ([]Student, error)
	CountStudents(ctx context.Context) (int64, error)
}

type OrganizerStore interface {
	CreateOrganizer(ctx context.Context, o *Organizer) error
	OrganizerExists(ctx context.Context, organizerID, email string) (bool, error)
	// FindOrganizer matches identifier against organizerId or email.
	FindOrganizer(ctx context.Context, identifier string) (*Organizer, error)
	GetOrganizerByKey(ctx context.Context, id string) (*Organizer, error)
	SetOrganizerPassword(ctx context.Context, id, password string) error
	DeleteOrganizer(ctx context.Context, organizerID string) error
	ListOrganizers(ctx context.Context) ([]Organizer, error)
	CountOrganizers(ctx context.Context) (int64, error)
}

type AdminStore interface {
	CreateAdmin(ctx context.Context, a *Admin) error
	GetAdmin(ctx context.Context, username string) (*Admin, error)
}

// EventFilter narrows event queries. Zero value matches everything.
type EventFilter struct {
	Approved    *bool
	OrganizerID string
	IDs         []string
}

// EventPatch holds the fields of a partial event update; nil fields are left as stored.
type EventPatch struct {
	Title           *string
	Date            *string
	Time            *string
	Location        *string
	Description     *string
	Category        *string
	Price           *int
	MaxParticipants **int
	Poster          *string
	Rules           *string
	Deadline        **time.Time
	Status          *string
	IsApproved      *bool
}

type EventStore interface {
	CreateEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, f EventFilter) ([]Event, error)
	CountEvents(ctx context.Context, f EventFilter) (int64, error)
	// UpdateEvent applies p and returns the updated event, or nil if it does not exist.
	UpdateEvent(ctx context.Context, id string, p EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	// ReserveSeat increments registeredCount only while the event has room.
	// It reports false when the event is full or missing.
	ReserveSeat(ctx context.Context, id string) (bool, error)
	ReleaseSeat(ctx context.Context, id string) error
	SetRegisteredCount(ctx context.Context, id string, n int) error
}

// RegistrationFilter narrows registration queries. Limit 0 means no limit.
type RegistrationFilter struct {
	StudentID        string
	EventID          string
	EventIDs         []string
	ExcludeCancelled bool
	NewestFirst      bool
	Limit            int
}

type RegistrationStore interface {
	// CreateRegistration returns ErrDuplicateKey when the (studentId, eventId) pair exists.
	CreateRegistration(ctx context.Context, r *Registration) error
	FindRegistration(ctx context.Context, studentID, eventID string) (*Registration, error)
	GetRegistration(ctx context.Context, id string) (*Registration, error)
	ListRegistrations(ctx context.Context, f RegistrationFilter) ([]Registration, error)
	CountRegistrations(ctx context.Context, f RegistrationFilter) (int64, error)
	// SetRegistrationStatus returns the updated registration, or nil if it does not exist.
	SetRegistrationStatus(ctx context.Context, id, status string) (*Registration, error)
	DeleteRegistrations(ctx context.Context, f RegistrationFilter) (int64, error)
}

type RecordStore interface {
	AppendLog(ctx context.Context, l *ActivityLog) error
	ListLogs(ctx context.Context) ([]ActivityLog, error)
	CreateFeedback(ctx context.Context, f *Feedback) error
	CreateContact(ctx context.Context, c *Contact) error
	GetMeta(ctx context.Context, key string) (*ProjectMeta, error)
	CreateMeta(ctx context.Context, m *ProjectMeta) error
}

// Store is everything the service needs from persistence.
type Store interface {
	StudentStore
	OrganizerStore
	AdminStore
	EventStore
	RegistrationStore
	RecordStore
	Ping(ctx context.Context) error
}

func (p EventPatch) apply(e *Event) {
	setIf(&e.Title, p.Title)
	setIf(&e.Date, p.Date)
	setIf(&e.Time, p.Time)
	setIf(&e.Location, p.Location)
	setIf(&e.Description, p.Description)
	setIf(&e.Category, p.Category)
	setIf(&e.Price, p.Price)
	setIf(&e.MaxParticipants, p.MaxParticipants)
	setIf(&e.Poster, p.Poster)
	setIf(&e.Rules, p.Rules)
	setIf(&e.Deadline, p.Deadline)
	setIf(&e.Status, p.Status)
	setIf(&e.IsApproved, p.IsApproved)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
