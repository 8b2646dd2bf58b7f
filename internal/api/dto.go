package api

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"campusevents/internal/campus"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	ID       string `json:"id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Branch   string `json:"branch"`
	Password string `json:"password"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r signupRequest) input() campus.SignupInput {
	return campus.SignupInput{
		Name:     r.Name,
		ID:       r.ID,
		Email:    r.Email,
		Branch:   r.Branch,
		Password: r.Password,
		Question: r.Question,
		Answer:   r.Answer,
	}
}

type loginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type findAccountRequest struct {
	Role       string `json:"role" validate:"required"`
	Identifier string `json:"identifier" validate:"required"`
}

type resetPasswordRequest struct {
	Role        string `json:"role" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

type createEventRequest struct {
	Title           string `json:"title" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	OrganizerID     string `json:"organizerId"`
	Price           int    `json:"price" validate:"gte=0"`
	MaxParticipants *int   `json:"maxParticipants" validate:"omitempty,gte=0"`
	Poster          string `json:"poster"`
	Rules           string `json:"rules"`
	Deadline        string `json:"deadline"`
}

func (r createEventRequest) input() (campus.EventInput, error) {
	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return campus.EventInput{}, err
	}
	return campus.EventInput{
		Title:           r.Title,
		Date:            r.Date,
		Time:            r.Time,
		Location:        r.Location,
		Description:     r.Description,
		Category:        r.Category,
		OrganizerID:     r.OrganizerID,
		Price:           r.Price,
		MaxParticipants: r.MaxParticipants,
		Poster:          r.Poster,
		Rules:           r.Rules,
		Deadline:        deadline,
	}, nil
}

// nullable distinguishes an absent field from an explicit null.
type nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// updateEventRequest lists the organizer-editable fields. Anything else in
// the body is ignored.
type updateEventRequest struct {
	Title           *string          `json:"title"`
	Date            *string          `json:"date"`
	Time            *string          `json:"time"`
	Location        *string          `json:"location"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Price           *int             `json:"price"`
	MaxParticipants nullable[int]    `json:"maxParticipants"`
	Poster          *string          `json:"poster"`
	Rules           *string          `json:"rules"`
	Deadline        nullable[string] `json:"deadline"`
	Status          *string          `json:"status"`
}

func (r updateEventRequest) patch() (campus.EventPatch, error) {
	p := campus.EventPatch{
		Title:       r.Title,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Poster:      r.Poster,
		Rules:       r.Rules,
		Status:      r.Status,
	}
	if r.MaxParticipants.Set {
		mp := r.MaxParticipants.Value
		if mp != nil && *mp < 0 {
			return p, errors.New("maxParticipants cannot be negative")
		}
		p.MaxParticipants = &mp
	}
	if r.Deadline.Set {
		var raw string
		if r.Deadline.Value != nil {
			raw = *r.Deadline.Value
		}
		d, err := parseDeadline(raw)
		if err != nil {
			return p, err
		}
		p.Deadline = &d
	}
	return p, nil
}

type eventStatusRequest struct {
	IsApproved *bool   `json:"isApproved"`
	Status     *string `json:"status"`
}

type registerRequest struct {
	StudentID   string   `json:"studentId" validate:"required"`
	EventID     string   `json:"eventId" validate:"required"`
	Type        string   `json:"type" validate:"omitempty,oneof=individual team"`
	TeamName    string   `json:"teamName"`
	TeamMembers []string `json:"teamMembers"`
	PaymentID   string   `json:"paymentId"`
}

type participantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=registered attended cancelled"`
}

type feedbackRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	EventID   string `json:"eventId"`
	Rating    int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment   string `json:"comment"`
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type posterRequest struct {
	Data string `json:"data" validate:"required"`
}

// parseDeadline accepts a calendar date or an RFC 3339 timestamp. Empty means none.
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("deadline must be YYYY-MM-DD or RFC 3339")
}
