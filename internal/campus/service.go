package campus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campusevents/internal/queue"
)

// NoticeRegistrationCreated is the queue message type published after a
// successful registration.
const NoticeRegistrationCreated = "registration.created"

// Publisher hands messages to the notification queue.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// RegistrationNotice is the body of a NoticeRegistrationCreated message.
type RegistrationNotice struct {
	RegistrationID string `json:"registrationId"`
	EventID        string `json:"eventId"`
	EventTitle     string `json:"eventTitle"`
	EventDate      string `json:"eventDate"`
	EventLocation  string `json:"eventLocation,omitempty"`
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
	StudentEmail   string `json:"studentEmail"`
	PaymentStatus  string `json:"paymentStatus"`
	PaymentAmount  int    `json:"paymentAmount"`
}

// Service implements every campus operation on top of a Store.
type Service struct {
	store Store
	log   zerolog.Logger
	pub   Publisher
	now   func() time.Time
	newID func() string

	publishTimeout time.Duration
}

// defaultPublishTimeout bounds how long a committed registration waits on the queue.
const defaultPublishTimeout = 500 * time.Millisecond

// NewService creates a service. pub may be nil, in which case no notices are sent.
func NewService(store Store, logger zerolog.Logger, pub Publisher) *Service {
	return &Service{
		store: store,
		log:   logger.With().Str("component", "campus").Logger(),
		pub:   pub,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,

		publishTimeout: defaultPublishTimeout,
	}
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// logActivity appends an audit entry. Failures are logged and swallowed so
// the audit trail never breaks the operation being audited.
func (s *Service) logActivity(ctx context.Context, role, userID, action, details string) {
	entry := &ActivityLog{
		ID:        s.newID(),
		UserRole:  role,
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
	}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("activity log append failed")
	}
}

func (s *Service) notify(ctx context.Context, n RegistrationNotice) {
	if s.pub == nil {
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal registration notice")
		return
	}
	// The registration is already stored; the notice outlives the request but
	// never holds it up for longer than publishTimeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.pub.Publish(ctx, queue.Message{Type: NoticeRegistrationCreated, Body: body}); err != nil {
		s.log.Warn().Err(err).Str("registration_id", n.RegistrationID).Msg("queue publish failed")
	}
}
