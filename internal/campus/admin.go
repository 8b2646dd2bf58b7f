package campus

import (
	"context"
	"fmt"
)

// DeleteUser removes a student with their registrations, or an organizer.
// An organizer's events are left in place.
func (s *Service) DeleteUser(ctx context.Context, role, id string) error {
	const failMsg = "Error deleting user"
	switch role {
	case RoleStudent:
		if err := s.store.DeleteStudent(ctx, id); err != nil {
			return internal(failMsg, err)
		}
		if _, err := s.store.DeleteRegistrations(ctx, RegistrationFilter{StudentID: id}); err != nil {
			return internal(failMsg, err)
		}
	case RoleOrganizer:
		if err := s.store.DeleteOrganizer(ctx, id); err != nil {
			return internal(failMsg, err)
		}
	default:
		return ErrInvalidRole
	}
	s.logActivity(ctx, RoleAdmin, "", "DELETE_USER", fmt.Sprintf("Deleted %s %s", role, id))
	return nil
}

// UserList is the admin view of every account.
type UserList struct {
	Students   []UserSummary `json:"students"`
	Organizers []UserSummary `json:"organizers"`
}

// Users lists students and organizers.
func (s *Service) Users(ctx context.Context) (*UserList, error) {
	const failMsg = "Error fetching users"
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	organizers, err := s.store.ListOrganizers(ctx)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	out := &UserList{
		Students:   make([]UserSummary, 0, len(students)),
		Organizers: make([]UserSummary, 0, len(organizers)),
	}
	for _, st := range students {
		out.Students = append(out.Students, UserSummary{
			ID: st.StudentID, Name: st.Name, Email: st.Email, Branch: st.Branch, Role: RoleStudent,
		})
	}
	for _, o := range organizers {
		out.Organizers = append(out.Organizers, UserSummary{
			ID: o.OrganizerID, Name: o.Name, Email: o.Email, Role: RoleOrganizer,
		})
	}
	return out, nil
}

type AdminStats struct {
	StudentCount   int64 `json:"studentCount"`
	OrganizerCount int64 `json:"organizerCount"`
	EventCount     int64 `json:"eventCount"`
	PendingEvents  int64 `json:"pendingEvents"`
}

// AdminStats counts accounts and events; pending means not yet approved.
func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	const failMsg = "Error fetching admin stats"
	var (
		out AdminStats
		err error
	)
	if out.StudentCount, err = s.store.CountStudents(ctx); err != nil {
		return nil, internal(failMsg, err)
	}
	if out.OrganizerCount, err = s.store.CountOrganizers(ctx); err != nil {
		return nil, internal(failMsg, err)
	}
	if out.EventCount, err = s.store.CountEvents(ctx, EventFilter{}); err != nil {
		return nil, internal(failMsg, err)
	}
	pending := false
	if out.PendingEvents, err = s.store.CountEvents(ctx, EventFilter{Approved: &pending}); err != nil {
		return nil, internal(failMsg, err)
	}
	return &out, nil
}

type OrganizerStats struct {
	TotalEvents        int            `json:"totalEvents"`
	TotalRegistrations int            `json:"totalRegistrations"`
	RecentActivity     []Registration `json:"recentActivity"`
}

const recentActivityLimit = 5

// OrganizerStats summarizes an organizer's events. TotalRegistrations sums the
// stored counters rather than counting registrations.
func (s *Service) OrganizerStats(ctx context.Context, organizerID string) (*OrganizerStats, error) {
	const failMsg = "Error fetching organizer stats"
	evs, err := s.store.ListEvents(ctx, EventFilter{OrganizerID: organizerID})
	if err != nil {
		return nil, internal(failMsg, err)
	}
	out := &OrganizerStats{TotalEvents: len(evs), RecentActivity: []Registration{}}
	if len(evs) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(evs))
	for _, e := range evs {
		out.TotalRegistrations += e.RegisteredCount
		ids = append(ids, e.ID)
	}
	recent, err := s.store.ListRegistrations(ctx, RegistrationFilter{
		EventIDs:    ids,
		NewestFirst: true,
		Limit:       recentActivityLimit,
	})
	if err != nil {
		return nil, internal(failMsg, err)
	}
	out.RecentActivity = recent
	return out, nil
}

type StudentStats struct {
	RegisteredCount   int `json:"registeredCount"`
	AttendedCount     int `json:"attendedCount"`
	CertificatesCount int `json:"certificatesCount"`
}

// StudentStats counts a student's registrations, cancelled ones included.
// Certificates are not issued yet so CertificatesCount is always 0.
func (s *Service) StudentStats(ctx context.Context, studentID string) (*StudentStats, error) {
	regs, err := s.store.ListRegistrations(ctx, RegistrationFilter{StudentID: studentID})
	if err != nil {
		return nil, internal("Error fetching student stats", err)
	}
	out := &StudentStats{RegisteredCount: len(regs)}
	for _, r := range regs {
		if r.Status == StatusAttended {
			out.AttendedCount++
		}
	}
	return out, nil
}

// Logs returns the activity log, newest first.
func (s *Service) Logs(ctx context.Context) ([]ActivityLog, error) {
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return nil, internal("Error fetching logs", err)
	}
	return logs, nil
}

// Drift is one event whose stored counter disagreed with its registrations.
type Drift struct {
	EventID string
	Title   string
	Stored  int
	Actual  int
}

// ReconcileCounts recomputes registeredCount for every event from its
// non-cancelled registrations. With dryRun set nothing is written.
func (s *Service) ReconcileCounts(ctx context.Context, dryRun bool) ([]Drift, error) {
	evs, err := s.store.ListEvents(ctx, EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	var drift []Drift
	for _, e := range evs {
		n, err := s.store.CountRegistrations(ctx, RegistrationFilter{EventID: e.ID, ExcludeCancelled: true})
		if err != nil {
			return drift, fmt.Errorf("count registrations for %s: %w", e.ID, err)
		}
		if int(n) == e.RegisteredCount {
			continue
		}
		drift = append(drift, Drift{EventID: e.ID, Title: e.Title, Stored: e.RegisteredCount, Actual: int(n)})
		if dryRun {
			continue
		}
		if err := s.store.SetRegisteredCount(ctx, e.ID, int(n)); err != nil {
			return drift, fmt.Errorf("set count for %s: %w", e.ID, err)
		}
		s.log.Info().Str("event_id", e.ID).Int("stored", e.RegisteredCount).Int64("actual", n).Msg("registered count reconciled")
	}
	return drift, nil
}
