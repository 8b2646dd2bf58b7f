package campus

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
)

// MemoryStore keeps every collection in process memory. It is used for local
// development (STORE_BACKEND=memory) and by tests. Slices preserve insertion
// order so listings are stable.
type MemoryStore struct {
	mu            sync.RWMutex
	students      []Student
	organizers    []Organizer
	admins        []Admin
	events        []Event
	registrations []Registration
	logs          []ActivityLog
	feedback      []Feedback
	contacts      []Contact
	meta          []ProjectMeta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// ---------- Students ----------

func (m *MemoryStore) CreateStudent(_ context.Context, s *Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.students {
		if cur.StudentID == s.StudentID || cur.Email == s.Email {
			return ErrDuplicateKey
		}
	}
	c := *s
	c.RegisteredEvents = slices.Clone(s.RegisteredEvents)
	m.students = append(m.students, c)
	return nil
}

func (m *MemoryStore) StudentExists(_ context.Context, studentID, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.StudentID == studentID || s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) FindStudent(_ context.Context, identifier string) (*Student, error) {
	return m.student(func(s *Student) bool { return s.StudentID == identifier || s.Email == identifier }), nil
}

func (m *MemoryStore) GetStudent(_ context.Context, studentID string) (*Student, error) {
	return m.student(func(s *Student) bool { return s.StudentID == studentID }), nil
}

func (m *MemoryStore) GetStudentByKey(_ context.Context, id string) (*Student, error) {
	return m.student(func(s *Student) bool { return s.ID == id }), nil
}

func (m *MemoryStore) student(match func(*Student) bool) *Student {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.students {
		if match(&m.students[i]) {
			c := m.students[i]
			c.RegisteredEvents = slices.Clone(c.RegisteredEvents)
			return &c
		}
	}
	return nil
}

func (m *MemoryStore) SetStudentPassword(_ context.Context, id, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students[i].Password = password
		}
	}
	return nil
}

func (m *MemoryStore) AddStudentEvent(_ context.Context, studentID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].StudentID == studentID {
			m.students[i].RegisteredEvents = append(m.students[i].RegisteredEvents, eventID)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteStudent(_ context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = slices.DeleteFunc(m.students, func(s Student) bool { return s.StudentID == studentID })
	return nil
}

func (m *MemoryStore) ListStudents(context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, len(m.students))
	for i, s := range m.students {
		s.RegisteredEvents = slices.Clone(s.RegisteredEvents)
		out[i] = s
	}
	return out, nil
}

func (m *MemoryStore) CountStudents(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.students)), nil
}

// ---------- Organizers ----------

func (m *MemoryStore) CreateOrganizer(_ context.Context, o *Organizer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.organizers {
		if cur.OrganizerID == o.OrganizerID || cur.Email == o.Email {
			return ErrDuplicateKey
		}
	}
	m.organizers = append(m.organizers, *o)
	return nil
}

func (m *MemoryStore) OrganizerExists(_ context.Context, organizerID, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.organizers {
		if o.OrganizerID == organizerID || o.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) FindOrganizer(_ context.Context, identifier string) (*Organizer, error) {
	return m.organizer(func(o *Organizer) bool { return o.OrganizerID == identifier || o.Email == identifier }), nil
}

func (m *MemoryStore) GetOrganizerByKey(_ context.Context, id string) (*Organizer, error) {
	return m.organizer(func(o *Organizer) bool { return o.ID == id }), nil
}

func (m *MemoryStore) organizer(match func(*Organizer) bool) *Organizer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.organizers {
		if match(&m.organizers[i]) {
			c := m.organizers[i]
			return &c
		}
	}
	return nil
}

func (m *MemoryStore) SetOrganizerPassword(_ context.Context, id, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.organizers {
		if m.organizers[i].ID == id {
			m.organizers[i].Password = password
		}
	}
	return nil
}

func (m *MemoryStore) DeleteOrganizer(_ context.Context, organizerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizers = slices.DeleteFunc(m.organizers, func(o Organizer) bool { return o.OrganizerID == organizerID })
	return nil
}

func (m *MemoryStore) ListOrganizers(context.Context) ([]Organizer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.organizers), nil
}

func (m *MemoryStore) CountOrganizers(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.organizers)), nil
}

// ---------- Admins ----------

func (m *MemoryStore) CreateAdmin(_ context.Context, a *Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.admins {
		if cur.Username == a.Username {
			return ErrDuplicateKey
		}
	}
	m.admins = append(m.admins, *a)
	return nil
}

func (m *MemoryStore) GetAdmin(_ context.Context, username string) (*Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, nil
}

// ---------- Events ----------

func (m *MemoryStore) CreateEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, cloneEvent(*e))
	return nil
}

func (m *MemoryStore) GetEvent(_ context.Context, id string) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.eventIndex(id); i >= 0 {
		e := cloneEvent(m.events[i])
		return &e, nil
	}
	return nil, nil
}

func (m *MemoryStore) ListEvents(_ context.Context, f EventFilter) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Event{}
	for _, e := range m.events {
		if eventMatches(&e, f) {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (m *MemoryStore) CountEvents(ctx context.Context, f EventFilter) (int64, error) {
	evs, err := m.ListEvents(ctx, f)
	return int64(len(evs)), err
}

func (m *MemoryStore) UpdateEvent(_ context.Context, id string, p EventPatch) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(id)
	if i < 0 {
		return nil, nil
	}
	p.apply(&m.events[i])
	e := cloneEvent(m.events[i])
	return &e, nil
}

func (m *MemoryStore) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = slices.DeleteFunc(m.events, func(e Event) bool { return e.ID == id })
	return nil
}

func (m *MemoryStore) ReserveSeat(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(id)
	if i < 0 || m.events[i].Full() {
		return false, nil
	}
	m.events[i].RegisteredCount++
	return true, nil
}

func (m *MemoryStore) ReleaseSeat(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.eventIndex(id); i >= 0 && m.events[i].RegisteredCount > 0 {
		m.events[i].RegisteredCount--
	}
	return nil
}

func (m *MemoryStore) SetRegisteredCount(_ context.Context, id string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.eventIndex(id); i >= 0 {
		m.events[i].RegisteredCount = n
	}
	return nil
}

func (m *MemoryStore) eventIndex(id string) int {
	return slices.IndexFunc(m.events, func(e Event) bool { return e.ID == id })
}

func eventMatches(e *Event, f EventFilter) bool {
	if f.Approved != nil && e.IsApproved != *f.Approved {
		return false
	}
	if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
		return false
	}
	if f.IDs != nil && !slices.Contains(f.IDs, e.ID) {
		return false
	}
	return true
}

func cloneEvent(e Event) Event {
	if e.MaxParticipants != nil {
		v := *e.MaxParticipants
		e.MaxParticipants = &v
	}
	if e.Deadline != nil {
		v := *e.Deadline
		e.Deadline = &v
	}
	return e
}

// ---------- Registrations ----------

func (m *MemoryStore) CreateRegistration(_ context.Context, r *Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.registrations {
		if cur.StudentID == r.StudentID && cur.EventID == r.EventID {
			return ErrDuplicateKey
		}
	}
	c := *r
	c.TeamMembers = slices.Clone(r.TeamMembers)
	m.registrations = append(m.registrations, c)
	return nil
}

func (m *MemoryStore) FindRegistration(_ context.Context, studentID, eventID string) (*Registration, error) {
	return m.registration(func(r *Registration) bool { return r.StudentID == studentID && r.EventID == eventID }), nil
}

func (m *MemoryStore) GetRegistration(_ context.Context, id string) (*Registration, error) {
	return m.registration(func(r *Registration) bool { return r.ID == id }), nil
}

func (m *MemoryStore) registration(match func(*Registration) bool) *Registration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.registrations {
		if match(&m.registrations[i]) {
			c := m.registrations[i]
			c.TeamMembers = slices.Clone(c.TeamMembers)
			return &c
		}
	}
	return nil
}

func (m *MemoryStore) ListRegistrations(_ context.Context, f RegistrationFilter) ([]Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Registration{}
	for _, r := range m.registrations {
		if registrationMatches(&r, f) {
			r.TeamMembers = slices.Clone(r.TeamMembers)
			out = append(out, r)
		}
	}
	if f.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RegistrationDate.After(out[j].RegistrationDate)
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) CountRegistrations(ctx context.Context, f RegistrationFilter) (int64, error) {
	f.Limit = 0
	regs, err := m.ListRegistrations(ctx, f)
	return int64(len(regs)), err
}

func (m *MemoryStore) SetRegistrationStatus(_ context.Context, id, status string) (*Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.registrations {
		if m.registrations[i].ID == id {
			m.registrations[i].Status = status
			c := m.registrations[i]
			c.TeamMembers = slices.Clone(c.TeamMembers)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) DeleteRegistrations(_ context.Context, f RegistrationFilter) (int64, error) {
	if f.StudentID == "" && f.EventID == "" {
		return 0, errors.New("delete registrations: refusing unscoped delete")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.registrations)
	m.registrations = slices.DeleteFunc(m.registrations, func(r Registration) bool {
		return registrationMatches(&r, f)
	})
	return int64(before - len(m.registrations)), nil
}

func registrationMatches(r *Registration, f RegistrationFilter) bool {
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	if f.EventID != "" && r.EventID != f.EventID {
		return false
	}
	if f.EventIDs != nil && !slices.Contains(f.EventIDs, r.EventID) {
		return false
	}
	if f.ExcludeCancelled && r.Status == StatusCancelled {
		return false
	}
	return true
}

// ---------- Records ----------

func (m *MemoryStore) AppendLog(_ context.Context, l *ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *MemoryStore) ListLogs(context.Context) ([]ActivityLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.logs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryStore) CreateFeedback(_ context.Context, f *Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, *f)
	return nil
}

func (m *MemoryStore) CreateContact(_ context.Context, c *Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *MemoryStore) GetMeta(_ context.Context, key string) (*ProjectMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pm := range m.meta {
		if pm.Key == key {
			return &pm, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateMeta(_ context.Context, pm *ProjectMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.meta {
		if cur.Key == pm.Key {
			return ErrDuplicateKey
		}
	}
	m.meta = append(m.meta, *pm)
	return nil
}
