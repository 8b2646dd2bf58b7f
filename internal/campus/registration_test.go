package campus

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFreeEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	e := f.event(t, "Tech Talk", 0, nil)

	id, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	reg, err := f.store.GetRegistration(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, PaymentFree, reg.PaymentStatus)
	assert.Equal(t, 0, reg.PaymentAmount)
	assert.Equal(t, TypeIndividual, reg.RegistrationType)
	assert.Equal(t, StatusRegistered, reg.Status)

	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount)
	st, _ := f.store.GetStudent(ctx, "S1")
	assert.Equal(t, []string{e.ID}, st.RegisteredEvents)

	logs, _ := f.store.ListLogs(ctx)
	require.NotEmpty(t, logs)
	assert.Equal(t, "REGISTER_EVENT", logs[0].Action)
	assert.Equal(t, "Registered for Tech Talk ("+e.ID+")", logs[0].Details)
	assert.Equal(t, RoleStudent, logs[0].UserRole)
}

func TestRegisterPaidEventPublishesNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	e := f.event(t, "Workshop", 500, intPtr(10))

	id, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID, Type: TypeTeam, TeamName: "Alpha", TeamMembers: []string{"S2"}, PaymentID: "pay_1"})
	require.NoError(t, err)

	reg, _ := f.store.GetRegistration(ctx, id)
	assert.Equal(t, PaymentPaid, reg.PaymentStatus)
	assert.Equal(t, 500, reg.PaymentAmount)
	assert.Equal(t, "Alpha", reg.TeamName)
	assert.Equal(t, "pay_1", reg.PaymentID)

	msgs := f.pub.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, NoticeRegistrationCreated, msgs[0].Type)
	var n RegistrationNotice
	require.NoError(t, json.Unmarshal(msgs[0].Body, &n))
	assert.Equal(t, id, n.RegistrationID)
	assert.Equal(t, "S1@college.edu", n.StudentEmail)
	assert.Equal(t, 500, n.PaymentAmount)
}

func TestRegisterMissingStudentOrEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	e := f.event(t, "Tech Talk", 0, nil)

	_, err := f.svc.Register(ctx, RegisterInput{StudentID: "ghost", EventID: e.ID})
	assert.ErrorIs(t, err, ErrStudentOrEventNotFound)
	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: "nope"})
	assert.ErrorIs(t, err, ErrStudentOrEventNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 0, f.reload(t, e.ID).RegisteredCount)
}

func TestRegisterRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	f.student(t, "S1")
	e := f.event(t, "Tech Talk", 0, nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{StudentID: "S1", EventID: e.ID, Type: "solo"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRegisterEventFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	e := f.event(t, "Tiny", 0, intPtr(1))

	_, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S2", EventID: e.ID})
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Equal(t, "Event is full", MessageOf(err, ""))

	n, _ := f.store.CountRegistrations(ctx, RegistrationFilter{EventID: e.ID})
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount)
}

func TestRegisterZeroCapacityIsUnlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Open", 0, intPtr(0))
	for _, id := range []string{"S1", "S2", "S3"} {
		f.student(t, id)
		_, err := f.svc.Register(ctx, RegisterInput{StudentID: id, EventID: e.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.reload(t, e.ID).RegisteredCount)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	e := f.event(t, "Tech Talk", 0, nil)

	_, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount)
}

func TestRegisterConcurrentLastSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Last Seat", 0, intPtr(1))
	students := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"}
	for _, id := range students {
		f.student(t, id)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, id := range students {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.Register(ctx, RegisterInput{StudentID: id, EventID: e.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case err == ErrEventFull:
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(students)-1, full)
	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount)
	n, _ := f.store.CountRegistrations(ctx, RegistrationFilter{EventID: e.ID})
	assert.EqualValues(t, 1, n)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	e := f.event(t, "Popular", 0, nil)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.reload(t, e.ID).RegisteredCount, "released seats keep the counter exact")
}

func TestStudentEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	a := f.event(t, "A", 0, nil)
	b := f.event(t, "B", 0, nil)
	f.event(t, "C", 0, nil)

	evs, err := f.svc.StudentEvents(ctx, "S1")
	require.NoError(t, err)
	assert.Empty(t, evs)

	for _, e := range []*Event{b, a} {
		_, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
		require.NoError(t, err)
	}
	evs, err = f.svc.StudentEvents(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "B", evs[0].Title)
	assert.Equal(t, "A", evs[1].Title)

	_, err = f.svc.StudentEvents(ctx, "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestParticipantsAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")
	f.student(t, "S2")
	e := f.event(t, "Meetup", 0, nil)
	r1, err := f.svc.Register(ctx, RegisterInput{StudentID: "S1", EventID: e.ID})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterInput{StudentID: "S2", EventID: e.ID})
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteStudent(ctx, "S2"))

	ps, err := f.svc.Participants(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	byStudent := map[string]Participant{}
	for _, p := range ps {
		byStudent[p.StudentID] = p
	}
	assert.Equal(t, "Student S1", byStudent["S1"].StudentName)
	assert.Equal(t, "CSE", byStudent["S1"].StudentBranch)
	assert.Equal(t, "Unknown", byStudent["S2"].StudentName)
	assert.Equal(t, "Unknown", byStudent["S2"].StudentEmail)

	reg, err := f.svc.SetParticipantStatus(ctx, r1, StatusAttended)
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, reg.Status)

	_, err = f.svc.SetParticipantStatus(ctx, r1, "vanished")
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = f.svc.SetParticipantStatus(ctx, "nope", StatusCancelled)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}
