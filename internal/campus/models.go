package campus

import "time"

// Roles a caller can resolve to at login.
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleStudent   = "student"
)

// Event lifecycle states.
const (
	EventUpcoming  = "upcoming"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
)

// Registration values.
const (
	TypeIndividual = "individual"
	TypeTeam       = "team"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
	PaymentFree    = "free"

	StatusRegistered = "registered"
	StatusAttended   = "attended"
	StatusCancelled  = "cancelled"
)

// Student is a student account. RegisteredEvents is denormalized from the
// registrations collection and only ever grows.
type Student struct {
	ID               string   `bson:"_id" json:"_id"`
	Name             string   `bson:"name" json:"name"`
	StudentID        string   `bson:"studentId" json:"studentId"`
	Email            string   `bson:"email" json:"email"`
	Branch           string   `bson:"branch,omitempty" json:"branch,omitempty"`
	Password         string   `bson:"password" json:"-"`
	SecurityQuestion string   `bson:"securityQuestion,omitempty" json:"-"`
	SecurityAnswer   string   `bson:"securityAnswer,omitempty" json:"-"`
	RegisteredEvents []string `bson:"registeredEvents" json:"registeredEvents"`
}

// Organizer is an organizer account.
type Organizer struct {
	ID               string `bson:"_id" json:"_id"`
	Name             string `bson:"name" json:"name"`
	OrganizerID      string `bson:"organizerId" json:"organizerId"`
	Email            string `bson:"email" json:"email"`
	Password         string `bson:"password" json:"-"`
	SecurityQuestion string `bson:"securityQuestion,omitempty" json:"-"`
	SecurityAnswer   string `bson:"securityAnswer,omitempty" json:"-"`
}

// Event is a campus activity. OrganizerID references Organizer.OrganizerID by
// value. A nil or zero MaxParticipants means the event has no capacity limit.
type Event struct {
	ID              string     `bson:"_id" json:"_id"`
	Title           string     `bson:"title" json:"title"`
	Date            string     `bson:"date" json:"date"`
	Time            string     `bson:"time,omitempty" json:"time,omitempty"`
	Location        string     `bson:"location,omitempty" json:"location,omitempty"`
	Description     string     `bson:"description,omitempty" json:"description,omitempty"`
	Category        string     `bson:"category,omitempty" json:"category,omitempty"`
	OrganizerID     string     `bson:"organizerId" json:"organizerId"`
	Price           int        `bson:"price" json:"price"`
	RegisteredCount int        `bson:"registeredCount" json:"registeredCount"`
	MaxParticipants *int       `bson:"maxParticipants" json:"maxParticipants"`
	Poster          string     `bson:"poster,omitempty" json:"poster,omitempty"`
	Rules           string     `bson:"rules,omitempty" json:"rules,omitempty"`
	Deadline        *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Status          string     `bson:"status" json:"status"`
	IsApproved      bool       `bson:"isApproved" json:"isApproved"`
}

// Limited reports whether the event has a capacity ceiling.
func (e *Event) Limited() bool {
	return e.MaxParticipants != nil && *e.MaxParticipants > 0
}

// Full reports whether no seat is left.
func (e *Event) Full() bool {
	return e.Limited() && e.RegisteredCount >= *e.MaxParticipants
}

// Registration is a student's enrollment in one event.
type Registration struct {
	ID               string    `bson:"_id" json:"_id"`
	StudentID        string    `bson:"studentId" json:"studentId"`
	EventID          string    `bson:"eventId" json:"eventId"`
	RegistrationDate time.Time `bson:"registrationDate" json:"registrationDate"`
	RegistrationType string    `bson:"registrationType" json:"registrationType"`
	TeamName         string    `bson:"teamName,omitempty" json:"teamName,omitempty"`
	TeamMembers      []string  `bson:"teamMembers" json:"teamMembers"`
	PaymentStatus    string    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentID        string    `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	PaymentAmount    int       `bson:"paymentAmount" json:"paymentAmount"`
	Status           string    `bson:"status" json:"status"`
}

// Participant is a registration joined with the student's contact details.
type Participant struct {
	Registration  `bson:",inline"`
	StudentName   string `json:"studentName"`
	StudentEmail  string `json:"studentEmail"`
	StudentBranch string `json:"studentBranch"`
}

type Admin struct {
	ID       string `bson:"_id" json:"_id"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"-"`
}

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        string    `bson:"_id" json:"_id"`
	UserRole  string    `bson:"userRole,omitempty" json:"userRole,omitempty"`
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	Action    string    `bson:"action" json:"action"`
	Details   string    `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Feedback struct {
	ID        string    `bson:"_id" json:"_id"`
	StudentID string    `bson:"studentId" json:"studentId"`
	EventID   string    `bson:"eventId,omitempty" json:"eventId,omitempty"`
	Rating    int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Date      time.Time `bson:"date" json:"date"`
}

type Contact struct {
	ID      string    `bson:"_id" json:"_id"`
	Name    string    `bson:"name" json:"name"`
	Email   string    `bson:"email" json:"email"`
	Subject string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Message string    `bson:"message" json:"message"`
	Status  string    `bson:"status" json:"status"`
	Date    time.Time `bson:"date" json:"date"`
}

// ProjectMeta describes the deployment, shown on the about page.
type ProjectMeta struct {
	ID          string    `bson:"_id" json:"_id"`
	Key         string    `bson:"key" json:"key"`
	ProjectName string    `bson:"projectName" json:"projectName"`
	Team        string    `bson:"team" json:"team"`
	Version     string    `bson:"version" json:"version"`
	Description string    `bson:"description" json:"description"`
	DeployedAt  time.Time `bson:"deployedAt" json:"deployedAt"`
}
