package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/campus"
	"campusevents/internal/queue"
)

type fakeSender struct {
	mu   sync.Mutex
	got  []campus.RegistrationNotice
	err  error
	done chan struct{}
}

func (f *fakeSender) SendRegistrationConfirmation(n campus.RegistrationNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, n)
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	return f.err
}

func notice(t *testing.T, n campus.RegistrationNotice) queue.Message {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	return queue.Message{Type: campus.NoticeRegistrationCreated, Body: body}
}

func TestHandle(t *testing.T) {
	s := &fakeSender{}
	p := NewProcessor(s, zerolog.Nop())

	require.NoError(t, p.Handle(notice(t, campus.RegistrationNotice{RegistrationID: "R1", StudentEmail: "a@x.io"})))
	require.Len(t, s.got, 1)
	assert.Equal(t, "a@x.io", s.got[0].StudentEmail)

	require.NoError(t, p.Handle(queue.Message{Type: "other"}))
	assert.Len(t, s.got, 1)

	assert.Error(t, p.Handle(queue.Message{Type: campus.NoticeRegistrationCreated, Body: []byte("{")}))

	s.err = errors.New("smtp down")
	assert.ErrorContains(t, p.Handle(notice(t, campus.RegistrationNotice{RegistrationID: "R2"})), "R2")
}

func TestRunDrainsQueue(t *testing.T) {
	s := &fakeSender{done: make(chan struct{})}
	p := NewProcessor(s, zerolog.Nop())
	q := queue.NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- p.Run(ctx, q) }()

	done := s.done
	require.NoError(t, q.Publish(ctx, notice(t, campus.RegistrationNotice{RegistrationID: "R1", StudentEmail: "a@x.io"})))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notice not delivered")
	}

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
