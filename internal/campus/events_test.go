package campus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	e, err := f.svc.CreateEvent(ctx, EventInput{Title: "Fest", Date: "2026-10-10", OrganizerID: "O1", Deadline: &deadline})
	require.NoError(t, err)
	assert.False(t, e.IsApproved)
	assert.Equal(t, EventUpcoming, e.Status)
	assert.Zero(t, e.RegisteredCount)
	assert.Nil(t, e.MaxParticipants)

	logs, _ := f.store.ListLogs(ctx)
	require.Len(t, logs, 1)
	assert.Equal(t, "CREATE_EVENT", logs[0].Action)
	assert.Equal(t, "O1", logs[0].UserID)

	_, err = f.svc.CreateEvent(ctx, EventInput{Date: "2026-10-10"})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = f.svc.CreateEvent(ctx, EventInput{Title: "x", Date: "2026-10-10", Price: -5})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateEventPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Old", 0, intPtr(5))

	title := "New"
	approved := true
	var unlimited *int
	got, err := f.svc.UpdateEvent(ctx, e.ID, EventPatch{Title: &title, MaxParticipants: &unlimited, IsApproved: &approved})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "2026-10-10", got.Date)
	assert.Nil(t, got.MaxParticipants)
	assert.False(t, got.IsApproved, "approval only changes through SetEventStatus")

	logs, _ := f.store.ListLogs(ctx)
	assert.Equal(t, "UPDATE_EVENT", logs[0].Action)
	assert.Equal(t, "Updated event: New", logs[0].Details)

	_, err = f.svc.UpdateEvent(ctx, "missing", EventPatch{Title: &title})
	assert.ErrorIs(t, err, ErrEventNotFound)

	bad := "archived"
	_, err = f.svc.UpdateEvent(ctx, e.ID, EventPatch{Status: &bad})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSetEventStatusIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Fest", 0, nil)

	approved := true
	got, err := f.svc.SetEventStatus(ctx, e.ID, &approved, nil)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.Equal(t, EventUpcoming, got.Status)

	completed := EventCompleted
	notApproved := false
	got, err = f.svc.SetEventStatus(ctx, e.ID, &notApproved, &completed)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)
	assert.Equal(t, EventCompleted, got.Status, "contradictory states are allowed")

	empty := ""
	got, err = f.svc.SetEventStatus(ctx, e.ID, nil, &empty)
	require.NoError(t, err)
	assert.Equal(t, EventCompleted, got.Status)

	_, err = f.svc.SetEventStatus(ctx, "missing", &approved, nil)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestListEventsApprovedFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.event(t, "A", 0, nil)
	f.event(t, "B", 0, nil)
	approved := true
	_, err := f.svc.SetEventStatus(ctx, a.ID, &approved, nil)
	require.NoError(t, err)

	only, err := f.svc.ListEvents(ctx, true)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "A", only[0].Title)

	all, err := f.svc.ListEvents(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	all, err = f.svc.ListAllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteEventCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	gone := f.event(t, "Gone", 0, nil)
	kept := f.event(t, "Kept", 0, nil)
	for _, sid := range []string{"S1", "S2"} {
		_, err := f.svc.Register(ctx, RegisterInput{StudentID: sid, EventID: gone.ID})
		require.NoError(t, err)
	}
	_, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: kept.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEvent(ctx, gone.ID))

	e, _ := f.store.GetEvent(ctx, gone.ID)
	assert.Nil(t, e)
	n, _ := f.store.CountRegistrations(ctx, RegistrationFilter{EventID: gone.ID})
	assert.Zero(t, n)
	n, _ = f.store.CountRegistrations(ctx, RegistrationFilter{EventID: kept.ID})
	assert.EqualValues(t, 1, n)
}
