package campus

import (
	"context"
	"fmt"
	"slices"
	"time"
)

var eventStatuses = []string{EventUpcoming, EventOngoing, EventCompleted}

// EventInput carries a new event as submitted by an organizer.
type EventInput struct {
	Title           string
	Date            string
	Time            string
	Location        string
	Description     string
	Category        string
	OrganizerID     string
	Price           int
	MaxParticipants *int
	Poster          string
	Rules           string
	Deadline        *time.Time
}

// CreateEvent stores a new event. New events always start unapproved and
// upcoming with no registrations.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	if in.Title == "" || in.Date == "" {
		return nil, invalid("Event title and date are required")
	}
	if in.Price < 0 {
		return nil, invalid("Price cannot be negative")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants < 0 {
		return nil, invalid("maxParticipants cannot be negative")
	}

	e := &Event{
		ID:              s.newID(),
		Title:           in.Title,
		Date:            in.Date,
		Time:            in.Time,
		Location:        in.Location,
		Description:     in.Description,
		Category:        in.Category,
		OrganizerID:     in.OrganizerID,
		Price:           in.Price,
		MaxParticipants: in.MaxParticipants,
		Poster:          in.Poster,
		Rules:           in.Rules,
		Deadline:        in.Deadline,
		Status:          EventUpcoming,
		IsApproved:      false,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, internal("Error creating event", err)
	}
	s.logActivity(ctx, RoleOrganizer, e.OrganizerID, "CREATE_EVENT", "Created event: "+e.Title)
	return e, nil
}

// UpdateEvent applies an organizer's partial edit. Approval and counters are
// not editable through this path.
func (s *Service) UpdateEvent(ctx context.Context, id string, p EventPatch) (*Event, error) {
	p.IsApproved = nil
	if p.Status != nil && !slices.Contains(eventStatuses, *p.Status) {
		return nil, invalid("Invalid event status")
	}
	if p.Price != nil && *p.Price < 0 {
		return nil, invalid("Price cannot be negative")
	}
	e, err := s.store.UpdateEvent(ctx, id, p)
	if err != nil {
		return nil, internal("Error updating event", err)
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	s.logActivity(ctx, RoleOrganizer, e.OrganizerID, "UPDATE_EVENT", "Updated event: "+e.Title)
	return e, nil
}

// SetEventStatus is the admin approval path. Only the given fields change;
// isApproved and status are independent and no combination is rejected.
func (s *Service) SetEventStatus(ctx context.Context, id string, isApproved *bool, status *string) (*Event, error) {
	if status != nil && *status == "" {
		status = nil
	}
	if status != nil && !slices.Contains(eventStatuses, *status) {
		return nil, invalid("Invalid event status")
	}
	e, err := s.store.UpdateEvent(ctx, id, EventPatch{IsApproved: isApproved, Status: status})
	if err != nil {
		return nil, internal("Error updating event status", err)
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	s.logActivity(ctx, RoleAdmin, "", "UPDATE_EVENT_STATUS",
		fmt.Sprintf("Event %s: approved=%t status=%s", e.Title, e.IsApproved, e.Status))
	return e, nil
}

// ListEvents lists events, only approved ones when approvedOnly is set.
func (s *Service) ListEvents(ctx context.Context, approvedOnly bool) ([]Event, error) {
	var f EventFilter
	if approvedOnly {
		approved := true
		f.Approved = &approved
	}
	evs, err := s.store.ListEvents(ctx, f)
	if err != nil {
		return nil, internal("Error fetching events", err)
	}
	return evs, nil
}

// ListAllEvents lists every event regardless of approval.
func (s *Service) ListAllEvents(ctx context.Context) ([]Event, error) {
	evs, err := s.store.ListEvents(ctx, EventFilter{})
	if err != nil {
		return nil, internal("Error fetching all events", err)
	}
	return evs, nil
}

// DeleteEvent removes the event and then its registrations. The two deletes
// are not atomic.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return internal("Error deleting event", err)
	}
	n, err := s.store.DeleteRegistrations(ctx, RegistrationFilter{EventID: id})
	if err != nil {
		return internal("Error deleting event", err)
	}
	s.log.Info().Str("event_id", id).Int64("registrations", n).Msg("event deleted")
	s.logActivity(ctx, "", "", "DELETE_EVENT", fmt.Sprintf("Deleted event %s and %d registrations", id, n))
	return nil
}
