package campus

import "errors"

// Kind classifies a failure for the route layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
)

// Error is a failure carrying a message safe to show to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

// internal wraps a store failure with the message the client gets.
func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

var (
	ErrEventFull              = &Error{Kind: KindValidation, Message: "Event is full"}
	ErrAlreadyRegistered      = &Error{Kind: KindValidation, Message: "Already registered"}
	ErrStudentOrEventNotFound = &Error{Kind: KindNotFound, Message: "Student or Event not found"}
	ErrStudentNotFound        = &Error{Kind: KindNotFound, Message: "Student not found"}
	ErrEventNotFound          = &Error{Kind: KindNotFound, Message: "Event not found"}
	ErrRegistrationNotFound   = &Error{Kind: KindNotFound, Message: "Registration not found"}
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrInvalidCredentials     = &Error{Kind: KindUnauthorized, Message: "Invalid ID/Email or Password"}
	ErrIncorrectAnswer        = &Error{Kind: KindValidation, Message: "Incorrect security answer"}
	ErrInvalidRole            = &Error{Kind: KindValidation, Message: "Invalid role"}
	ErrDuplicateStudent       = &Error{Kind: KindValidation, Message: "Student ID or Email already exists!"}
	ErrDuplicateOrganizer     = &Error{Kind: KindValidation, Message: "Organizer ID or Email already exists!"}
)

// ErrDuplicateKey is returned by stores when a unique constraint rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

// KindOf returns the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, or fallback.
func MessageOf(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
