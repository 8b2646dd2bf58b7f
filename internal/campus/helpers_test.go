package campus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"campusevents/internal/queue"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []queue.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg queue.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) messages() []queue.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.Message(nil), p.msgs...)
}

type fixture struct {
	svc   *Service
	store *MemoryStore
	pub   *recordingPublisher
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: NewMemoryStore(),
		pub:   &recordingPublisher{},
		clock: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.store, zerolog.Nop(), f.pub)
	var mu sync.Mutex
	f.svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func intPtr(v int) *int { return &v }

func (f *fixture) student(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.svc.SignupStudent(context.Background(), SignupInput{
		Name:     "Student " + id,
		ID:       id,
		Email:    id + "@college.edu",
		Branch:   "CSE",
		Password: "Passw0rd!",
		Question: "pet",
		Answer:   "Rex",
	}))
}

func (f *fixture) organizer(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.svc.SignupOrganizer(context.Background(), SignupInput{
		Name:     "Organizer " + id,
		ID:       id,
		Email:    id + "@college.edu",
		Password: "Passw0rd!",
		Question: "city",
		Answer:   "Pune",
	}))
}

func (f *fixture) event(t *testing.T, title string, price int, max *int) *Event {
	t.Helper()
	e, err := f.svc.CreateEvent(context.Background(), EventInput{
		Title:           title,
		Date:            "2026-10-10",
		OrganizerID:     "O1",
		Price:           price,
		MaxParticipants: max,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) reload(t *testing.T, id string) *Event {
	t.Helper()
	e, err := f.store.GetEvent(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, e, fmt.Sprintf("event %s", id))
	return e
}
