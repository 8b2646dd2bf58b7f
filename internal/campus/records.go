package campus

import (
	"context"
	"errors"
)

// FeedbackInput is a student's rating of an event.
type FeedbackInput struct {
	StudentID string
	EventID   string
	Rating    int
	Comment   string
}

func (s *Service) SubmitFeedback(ctx context.Context, in FeedbackInput) error {
	if in.StudentID == "" {
		return invalid("studentId is required")
	}
	if in.Rating != 0 && (in.Rating < 1 || in.Rating > 5) {
		return invalid("Rating must be between 1 and 5")
	}
	f := &Feedback{
		ID:        s.newID(),
		StudentID: in.StudentID,
		EventID:   in.EventID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Date:      s.now(),
	}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return internal("Error submitting feedback", err)
	}
	return nil
}

// ContactInput is a message from the public contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

const contactStatusNew = "New"

func (s *Service) SubmitContact(ctx context.Context, in ContactInput) error {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return invalid("Name, email and message are required")
	}
	c := &Contact{
		ID:      s.newID(),
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
		Status:  contactStatusNew,
		Date:    s.now(),
	}
	if err := s.store.CreateContact(ctx, c); err != nil {
		return internal("Error sending message", err)
	}
	return nil
}

// MetaKey identifies the single ProjectMeta document.
const MetaKey = "appInfo"

// Meta returns the project metadata, or nil before it is seeded.
func (s *Service) Meta(ctx context.Context) (*ProjectMeta, error) {
	m, err := s.store.GetMeta(ctx, MetaKey)
	if err != nil {
		return nil, internal("Error fetching metadata", err)
	}
	return m, nil
}

// SeedAdmin creates the admin account unless one with that username exists.
// It reports whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	a, err := s.store.GetAdmin(ctx, username)
	if err != nil {
		return false, err
	}
	if a != nil {
		return false, nil
	}
	err = s.store.CreateAdmin(ctx, &Admin{ID: s.newID(), Username: username, Password: password})
	if errors.Is(err, ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info().Str("username", username).Msg("default admin created")
	return true, nil
}

// SeedProjectMeta stores the about-page metadata unless it is already present.
func (s *Service) SeedProjectMeta(ctx context.Context) (bool, error) {
	m, err := s.store.GetMeta(ctx, MetaKey)
	if err != nil {
		return false, err
	}
	if m != nil {
		return false, nil
	}
	err = s.store.CreateMeta(ctx, &ProjectMeta{
		ID:          s.newID(),
		Key:         MetaKey,
		ProjectName: "College Event Management System",
		Team:        "Team-22",
		Version:     "1.0.0",
		Description: "A comprehensive platform for managing college events, registrations, and participants.",
		DeployedAt:  s.now(),
	})
	if errors.Is(err, ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info().Msg("project metadata initialized")
	return true, nil
}
