package campus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	f.organizer(t, "O1")
	e := f.event(t, "Fest", 0, nil)
	for _, sid := range []string{"S1", "S2"} {
		_, err := f.svc.Register(ctx, RegisterInput{StudentID: sid, EventID: e.ID})
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.DeleteUser(ctx, RoleStudent, "S1"))
	st, _ := f.store.GetStudent(ctx, "S1")
	assert.Nil(t, st)
	n, _ := f.store.CountRegistrations(ctx, RegistrationFilter{StudentID: "S1"})
	assert.Zero(t, n)
	n, _ = f.store.CountRegistrations(ctx, RegistrationFilter{StudentID: "S2"})
	assert.EqualValues(t, 1, n)

	require.NoError(t, f.svc.DeleteUser(ctx, RoleOrganizer, "O1"))
	o, _ := f.store.FindOrganizer(ctx, "O1")
	assert.Nil(t, o)
	left, _ := f.store.GetEvent(ctx, e.ID)
	assert.NotNil(t, left, "organizer events are not cascaded")

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, RoleAdmin, "admin"), ErrInvalidRole)
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	f.student(t, "S1")
	f.organizer(t, "O1")

	out, err := f.svc.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Students, 1)
	require.Len(t, out.Organizers, 1)
	assert.Equal(t, UserSummary{ID: "S1", Name: "Student S1", Email: "S1@college.edu", Branch: "CSE", Role: RoleStudent}, out.Students[0])
	assert.Equal(t, RoleOrganizer, out.Organizers[0].Role)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	f.organizer(t, "O1")
	a := f.event(t, "A", 0, nil)
	f.event(t, "B", 0, nil)
	approved := true
	_, err := f.svc.SetEventStatus(ctx, a.ID, &approved, nil)
	require.NoError(t, err)

	st, err := f.svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminStats{StudentCount: 2, OrganizerCount: 1, EventCount: 2, PendingEvents: 1}, *st)
}

func TestOrganizerStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.event(t, "A", 0, nil)
	b := f.event(t, "B", 0, nil)
	ids := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7"}
	for i, sid := range ids {
		f.student(t, sid)
		ev := a
		if i%2 == 1 {
			ev = b
		}
		_, err := f.svc.Register(ctx, RegisterInput{StudentID: sid, EventID: ev.ID})
		require.NoError(t, err)
	}
	other, err := f.svc.CreateEvent(ctx, EventInput{Title: "Other", Date: "2026-12-01", OrganizerID: "O2"})
	require.NoError(t, err)
	f.student(t, "S8")
	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S8", EventID: other.ID})
	require.NoError(t, err)

	st, err := f.svc.OrganizerStats(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalEvents)
	assert.Equal(t, 7, st.TotalRegistrations)
	require.Len(t, st.RecentActivity, 5)
	assert.Equal(t, "S7", st.RecentActivity[0].StudentID)
	assert.Equal(t, "S3", st.RecentActivity[4].StudentID)

	empty, err := f.svc.OrganizerStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalEvents)
	assert.NotNil(t, empty.RecentActivity)
}

func TestStudentStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	a := f.event(t, "A", 0, nil)
	b := f.event(t, "B", 0, nil)
	ra, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: a.ID})
	require.NoError(t, err)
	rb, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: b.ID})
	require.NoError(t, err)
	_, err = f.svc.SetParticipantStatus(ctx, ra, StatusAttended)
	require.NoError(t, err)
	_, err = f.svc.SetParticipantStatus(ctx, rb, StatusCancelled)
	require.NoError(t, err)

	st, err := f.svc.StudentStats(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, StudentStats{RegisteredCount: 2, AttendedCount: 1, CertificatesCount: 0}, *st)
}

func TestLogsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.event(t, "First", 0, nil)
	f.event(t, "Second", 0, nil)

	logs, err := f.svc.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Created event: Second", logs[0].Details)
}

func TestReconcileCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	e := f.event(t, "Fest", 0, intPtr(10))
	clean := f.event(t, "Clean", 0, nil)
	r1, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S2", EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.SetParticipantStatus(ctx, r1, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reload(t, e.ID).RegisteredCount, "cancelling keeps the seat")

	drift, err := f.svc.ReconcileCounts(ctx, true)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, Drift{EventID: e.ID, Title: "Fest", Stored: 2, Actual: 1}, drift[0])
	assert.Equal(t, 2, f.reload(t, e.ID).RegisteredCount, "dry run writes nothing")

	_, err = f.svc.ReconcileCounts(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount)
	assert.Equal(t, 0, f.reload(t, clean.ID).RegisteredCount)

	drift, err = f.svc.ReconcileCounts(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drift)
}
