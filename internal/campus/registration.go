package campus

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"campusevents/internal/metrics"
)

var registrationStatuses = []string{StatusRegistered, StatusAttended, StatusCancelled}

// RegisterInput is a student's request to join an event.
type RegisterInput struct {
	StudentID   string
	EventID     string
	Type        string
	TeamName    string
	TeamMembers []string
	PaymentID   string
}

// Register enrolls a student in an event and returns the registration id.
//
// Lookups and the capacity and duplicate checks run before any write. The
// write phase takes a seat with a guarded increment, then inserts the
// registration; the unique (studentId, eventId) index turns a concurrent
// duplicate into ErrAlreadyRegistered and the seat is given back. The
// student's registeredEvents append afterwards is not rolled back on failure.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	id, err := s.register(ctx, in)
	metrics.ObserveRegistration(registrationOutcome(err))
	return id, err
}

func (s *Service) register(ctx context.Context, in RegisterInput) (string, error) {
	const failMsg = "Error registering for event"

	regType := in.Type
	if regType == "" {
		regType = TypeIndividual
	}
	if regType != TypeIndividual && regType != TypeTeam {
		return "", invalid("Invalid registration type")
	}

	student, err := s.store.GetStudent(ctx, in.StudentID)
	if err != nil {
		return "", internal(failMsg, err)
	}
	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		return "", internal(failMsg, err)
	}
	if student == nil || event == nil {
		return "", ErrStudentOrEventNotFound
	}

	if event.Full() {
		return "", ErrEventFull
	}
	existing, err := s.store.FindRegistration(ctx, student.StudentID, event.ID)
	if err != nil {
		return "", internal(failMsg, err)
	}
	if existing != nil {
		return "", ErrAlreadyRegistered
	}

	payment := PaymentFree
	if event.Price > 0 {
		// The payment gateway is trusted to have charged the student already.
		payment = PaymentPaid
	}

	ok, err := s.store.ReserveSeat(ctx, event.ID)
	if err != nil {
		return "", internal(failMsg, err)
	}
	if !ok {
		return "", ErrEventFull
	}

	reg := &Registration{
		ID:               s.newID(),
		StudentID:        student.StudentID,
		EventID:          event.ID,
		RegistrationDate: s.now(),
		RegistrationType: regType,
		TeamName:         in.TeamName,
		TeamMembers:      in.TeamMembers,
		PaymentStatus:    payment,
		PaymentID:        in.PaymentID,
		PaymentAmount:    event.Price,
		Status:           StatusRegistered,
	}
	if reg.TeamMembers == nil {
		reg.TeamMembers = []string{}
	}
	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		if rerr := s.store.ReleaseSeat(ctx, event.ID); rerr != nil {
			s.log.Error().Err(rerr).Str("event_id", event.ID).Msg("release seat after failed insert")
		}
		if errors.Is(err, ErrDuplicateKey) {
			return "", ErrAlreadyRegistered
		}
		return "", internal(failMsg, err)
	}

	if err := s.store.AddStudentEvent(ctx, student.StudentID, event.ID); err != nil {
		return "", internal(failMsg, err)
	}

	s.logActivity(ctx, RoleStudent, student.StudentID, "REGISTER_EVENT",
		fmt.Sprintf("Registered for %s (%s)", event.Title, event.ID))
	s.notify(ctx, RegistrationNotice{
		RegistrationID: reg.ID,
		EventID:        event.ID,
		EventTitle:     event.Title,
		EventDate:      event.Date,
		EventLocation:  event.Location,
		StudentID:      student.StudentID,
		StudentName:    student.Name,
		StudentEmail:   student.Email,
		PaymentStatus:  reg.PaymentStatus,
		PaymentAmount:  reg.PaymentAmount,
	})
	s.log.Info().
		Str("registration_id", reg.ID).
		Str("student_id", student.StudentID).
		Str("event_id", event.ID).
		Msg("registration created")
	return reg.ID, nil
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, ErrEventFull):
		return "full"
	case errors.Is(err, ErrAlreadyRegistered):
		return "duplicate"
	case KindOf(err) == KindNotFound:
		return "not_found"
	case KindOf(err) == KindValidation:
		return "invalid"
	default:
		return "error"
	}
}

// StudentEvents returns the events a student registered for, in registration order.
func (s *Service) StudentEvents(ctx context.Context, studentID string) ([]Event, error) {
	const failMsg = "Error fetching registered events"
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	if st == nil {
		return nil, ErrStudentNotFound
	}
	if len(st.RegisteredEvents) == 0 {
		return []Event{}, nil
	}
	evs, err := s.store.ListEvents(ctx, EventFilter{IDs: st.RegisteredEvents})
	if err != nil {
		return nil, internal(failMsg, err)
	}
	byID := make(map[string]Event, len(evs))
	for _, e := range evs {
		byID[e.ID] = e
	}
	out := make([]Event, 0, len(st.RegisteredEvents))
	for _, id := range st.RegisteredEvents {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

const unknown = "Unknown"

// Participants lists the registrations of an event with student contact details.
func (s *Service) Participants(ctx context.Context, eventID string) ([]Participant, error) {
	const failMsg = "Error fetching participants"
	regs, err := s.store.ListRegistrations(ctx, RegistrationFilter{EventID: eventID})
	if err != nil {
		return nil, internal(failMsg, err)
	}
	out := make([]Participant, 0, len(regs))
	for _, r := range regs {
		p := Participant{Registration: r, StudentName: unknown, StudentEmail: unknown, StudentBranch: unknown}
		st, err := s.store.GetStudent(ctx, r.StudentID)
		if err != nil {
			return nil, internal(failMsg, err)
		}
		if st != nil {
			p.StudentName, p.StudentEmail, p.StudentBranch = st.Name, st.Email, st.Branch
		}
		out = append(out, p)
	}
	return out, nil
}

// SetParticipantStatus records attendance or cancellation. Cancelling does
// not give the seat back; see ReconcileCounts.
func (s *Service) SetParticipantStatus(ctx context.Context, regID, status string) (*Registration, error) {
	if !slices.Contains(registrationStatuses, status) {
		return nil, invalid("Invalid registration status")
	}
	r, err := s.store.SetRegistrationStatus(ctx, regID, status)
	if err != nil {
		return nil, internal("Error updating status", err)
	}
	if r == nil {
		return nil, ErrRegistrationNotFound
	}
	return r, nil
}
