// Package notify turns queued registration notices into confirmation mail.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"campusevents/internal/campus"
	"campusevents/internal/metrics"
	"campusevents/internal/queue"
)

// Sender delivers a confirmation for one registration.
type Sender interface {
	SendRegistrationConfirmation(n campus.RegistrationNotice) error
}

// Processor handles notices one at a time.
type Processor struct {
	sender Sender
	log    zerolog.Logger
}

func NewProcessor(sender Sender, log zerolog.Logger) *Processor {
	return &Processor{sender: sender, log: log.With().Str("component", "notify").Logger()}
}

// Handle processes a single message. Unknown types are skipped.
func (p *Processor) Handle(msg queue.Message) error {
	if msg.Type != campus.NoticeRegistrationCreated {
		metrics.ObserveNotice(msg.Type, "skipped")
		p.log.Debug().Str("type", msg.Type).Msg("ignoring message")
		return nil
	}
	var n campus.RegistrationNotice
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		metrics.ObserveNotice(msg.Type, "malformed")
		return fmt.Errorf("decode notice: %w", err)
	}
	if err := p.sender.SendRegistrationConfirmation(n); err != nil {
		metrics.ObserveNotice(msg.Type, "failed")
		return fmt.Errorf("registration %s: %w", n.RegistrationID, err)
	}
	metrics.ObserveNotice(msg.Type, "sent")
	return nil
}

// Run consumes q until ctx is cancelled or the stream closes. Failures are
// logged and the message is dropped.
func (p *Processor) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	p.log.Info().Msg("waiting for notices")
	for msg := range messages {
		if err := p.Handle(msg); err != nil {
			p.log.Error().Err(err).Str("type", msg.Type).Msg("notice failed")
		}
	}
	p.log.Info().Msg("notice stream closed")
	return nil
}
