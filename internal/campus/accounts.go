package campus

import (
	"context"
	"errors"
	"strings"
)

// SignupInput carries a new student or organizer account.
type SignupInput struct {
	Name     string
	ID       string
	Email    string
	Branch   string
	Password string
	Question string
	Answer   string
}

// SignupStudent creates a student after the password and duplicate checks.
func (s *Service) SignupStudent(ctx context.Context, in SignupInput) error {
	if msg := ValidatePassword(in.Password); msg != "" {
		return invalid(msg)
	}
	taken, err := s.store.StudentExists(ctx, in.ID, in.Email)
	if err != nil {
		return internal("Server error during registration.", err)
	}
	if taken {
		return ErrDuplicateStudent
	}

	st := &Student{
		ID:               s.newID(),
		Name:             in.Name,
		StudentID:        in.ID,
		Email:            in.Email,
		Branch:           in.Branch,
		Password:         in.Password,
		SecurityQuestion: in.Question,
		SecurityAnswer:   in.Answer,
		RegisteredEvents: []string{},
	}
	if err := s.store.CreateStudent(ctx, st); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return ErrDuplicateStudent
		}
		return internal("Server error during registration.", err)
	}
	s.log.Info().Str("student_id", st.StudentID).Msg("student signed up")
	return nil
}

// SignupOrganizer creates an organizer after the password and duplicate checks.
func (s *Service) SignupOrganizer(ctx context.Context, in SignupInput) error {
	if msg := ValidatePassword(in.Password); msg != "" {
		return invalid(msg)
	}
	taken, err := s.store.OrganizerExists(ctx, in.ID, in.Email)
	if err != nil {
		return internal("Server error during registration.", err)
	}
	if taken {
		return ErrDuplicateOrganizer
	}

	o := &Organizer{
		ID:               s.newID(),
		Name:             in.Name,
		OrganizerID:      in.ID,
		Email:            in.Email,
		Password:         in.Password,
		SecurityQuestion: in.Question,
		SecurityAnswer:   in.Answer,
	}
	if err := s.store.CreateOrganizer(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return ErrDuplicateOrganizer
		}
		return internal("Server error during registration.", err)
	}
	s.log.Info().Str("organizer_id", o.OrganizerID).Msg("organizer signed up")
	return nil
}

// Identity is the outcome of a successful login.
type Identity struct {
	Role string
	User UserSummary
}

// UserSummary is the public view of an account.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Branch string `json:"branch,omitempty"`
	Role   string `json:"role,omitempty"`
}

// probe looks the caller up in one collection and reports a match only when
// the password is equal.
type probe func(ctx context.Context, userID, password string) (*Identity, error)

func (s *Service) probes() []probe {
	return []probe{s.probeAdmin, s.probeOrganizer, s.probeStudent}
}

// Login resolves userID against admins, organizers and students in that
// order. The first plaintext password match decides the role.
func (s *Service) Login(ctx context.Context, userID, password string) (*Identity, error) {
	for _, p := range s.probes() {
		id, err := p(ctx, userID, password)
		if err != nil {
			return nil, internal("Server error during login.", err)
		}
		if id != nil {
			return id, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) probeAdmin(ctx context.Context, userID, password string) (*Identity, error) {
	a, err := s.store.GetAdmin(ctx, userID)
	if err != nil || a == nil || a.Password != password {
		return nil, err
	}
	return &Identity{Role: RoleAdmin, User: UserSummary{ID: a.Username, Name: "Admin"}}, nil
}

func (s *Service) probeOrganizer(ctx context.Context, userID, password string) (*Identity, error) {
	o, err := s.store.FindOrganizer(ctx, userID)
	if err != nil || o == nil || o.Password != password {
		return nil, err
	}
	return &Identity{Role: RoleOrganizer, User: UserSummary{ID: o.OrganizerID, Name: o.Name, Email: o.Email}}, nil
}

func (s *Service) probeStudent(ctx context.Context, userID, password string) (*Identity, error) {
	st, err := s.store.FindStudent(ctx, userID)
	if err != nil || st == nil || st.Password != password {
		return nil, err
	}
	return &Identity{Role: RoleStudent, User: UserSummary{ID: st.StudentID, Name: st.Name, Email: st.Email, Branch: st.Branch}}, nil
}

// defaultQuestion is shown when an account never stored a security question.
const defaultQuestion = "pet"

// FindAccount returns the document key and security question of the account
// matching identifier (id or email) for role.
func (s *Service) FindAccount(ctx context.Context, role, identifier string) (key, question string, err error) {
	switch role {
	case RoleStudent:
		st, err := s.store.FindStudent(ctx, identifier)
		if err != nil {
			return "", "", internal("Server error", err)
		}
		if st != nil {
			return st.ID, orDefault(st.SecurityQuestion, defaultQuestion), nil
		}
	case RoleOrganizer:
		o, err := s.store.FindOrganizer(ctx, identifier)
		if err != nil {
			return "", "", internal("Server error", err)
		}
		if o != nil {
			return o.ID, orDefault(o.SecurityQuestion, defaultQuestion), nil
		}
	}
	return "", "", ErrUserNotFound
}

// ResetPassword sets a new password once the security answer matches,
// ignoring case and surrounding whitespace.
func (s *Service) ResetPassword(ctx context.Context, role, key, answer, newPassword string) error {
	var (
		stored string
		set    func(context.Context, string, string) error
	)
	switch role {
	case RoleStudent:
		st, err := s.store.GetStudentByKey(ctx, key)
		if err != nil {
			return internal("Server error", err)
		}
		if st == nil {
			return ErrUserNotFound
		}
		stored, set = st.SecurityAnswer, s.store.SetStudentPassword
	case RoleOrganizer:
		o, err := s.store.GetOrganizerByKey(ctx, key)
		if err != nil {
			return internal("Server error", err)
		}
		if o == nil {
			return ErrUserNotFound
		}
		stored, set = o.SecurityAnswer, s.store.SetOrganizerPassword
	default:
		return ErrUserNotFound
	}

	if stored == "" || !strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(answer)) {
		return ErrIncorrectAnswer
	}
	if msg := ValidatePassword(newPassword); msg != "" {
		return invalid(msg)
	}
	if err := set(ctx, key, newPassword); err != nil {
		return internal("Server error", err)
	}
	s.logActivity(ctx, role, key, "RESET_PASSWORD", "Password reset via security question")
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
