package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "registration.created", Body: []byte(`{"a":1}`)}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	msg := receive(t, msgs)
	assert.Equal(t, "registration.created", msg.Type)
	assert.JSONEq(t, `{"a":1}`, string(msg.Body))

	cancel()
	_, open := <-msgs
	assert.False(t, open)
}

func TestInMemoryPublishRespectsContext(t *testing.T) {
	q := NewInMemory(1)
	require.NoError(t, q.Publish(context.Background(), Message{Type: "x"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Publish(ctx, Message{Type: "y"}), context.DeadlineExceeded)
}

func TestRedisQueueFIFO(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewRedisQueue(client, "")
	q.wait = 100 * time.Millisecond
	require.NoError(t, q.Publish(ctx, Message{Type: "first", Body: []byte("a|b")}))
	require.NoError(t, q.Publish(ctx, Message{Type: "second", Body: []byte("c")}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	first := receive(t, msgs)
	assert.Equal(t, "first", first.Type)
	assert.Equal(t, "a|b", string(first.Body))
	assert.Equal(t, "second", receive(t, msgs).Type)
}

func TestDeserializeWithoutType(t *testing.T) {
	msg := deserialize("plain")
	assert.Empty(t, msg.Type)
	assert.Equal(t, "plain", string(msg.Body))
}

func TestRabbitMessageMapping(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := toPublishing(Message{Type: "registration.created", Body: []byte("{}")}, now)
	assert.Equal(t, amqp.Persistent, p.DeliveryMode)
	assert.Equal(t, "registration.created", p.Type)
	assert.Equal(t, now, p.Timestamp)

	msg := fromDelivery(amqp.Delivery{Type: p.Type, Body: p.Body})
	assert.Equal(t, "registration.created", msg.Type)
	assert.Equal(t, "{}", string(msg.Body))
}
