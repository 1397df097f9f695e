package auth

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DemoEmail is a fixed bypass account: any password is accepted for it.
const DemoEmail = "demo@example.com"

var (
	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNameTooShort       = errors.New("name must be at least 2 characters")
	ErrEmailTaken         = errors.New("user with this email already exists")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is the account record exposed to callers.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a sign-up request.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Session is a successful login or registration result.
type Session struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type userRecord struct {
	user         User
	passwordHash string
}

// Service is the Auth Service stub: an in-memory user table behind the
// login/register/logout/verify contract, with simulated latency per call.
type Service struct {
	mu           sync.RWMutex
	usersByEmail map[string]*userRecord
	usersByID    map[string]*userRecord
	tokens       *TokenService
	latency      time.Duration
}

// NewService seeds the demo account. latency <= 0 disables the delay.
func NewService(tokens *TokenService, latency time.Duration) *Service {
	s := &Service{
		usersByEmail: make(map[string]*userRecord),
		usersByID:    make(map[string]*userRecord),
		tokens:       tokens,
		latency:      latency,
	}
	demo := &userRecord{user: User{
		ID:        uuid.New().String(),
		Email:     DemoEmail,
		Name:      "Demo User",
		Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
		CreatedAt: time.Now(),
	}}
	s.usersByEmail[demo.user.Email] = demo
	s.usersByID[demo.user.ID] = demo
	return s
}

func (s *Service) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}
	if !emailPattern.MatchString(creds.Email) {
		return nil, ErrInvalidEmail
	}

	s.mu.RLock()
	record, ok := s.usersByEmail[creds.Email]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// The demo account accepts any password.
	if creds.Email != DemoEmail && !CheckPassword(creds.Password, record.passwordHash) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(record.user.ID, record.user.Email)
	if err != nil {
		return nil, err
	}

	return &Session{User: record.user, Token: token, Message: "Login successful"}, nil
}

// Register validates the sign-up data, creates the user and issues a token.
// The new session is authenticated immediately.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(reg.Email) {
		return nil, ErrInvalidEmail
	}
	if reg.Password != reg.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(reg.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(reg.Name) < 2 {
		return nil, ErrNameTooShort
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, exists := s.usersByEmail[reg.Email]; exists {
		s.mu.Unlock()
		return nil, ErrEmailTaken
	}
	record := &userRecord{
		user: User{
			ID:        uuid.New().String(),
			Email:     reg.Email,
			Name:      reg.Name,
			CreatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	s.usersByEmail[reg.Email] = record
	s.usersByID[record.user.ID] = record
	s.mu.Unlock()

	token, _, err := s.tokens.Issue(record.user.ID, record.user.Email)
	if err != nil {
		return nil, err
	}

	return &Session{User: record.user, Token: token, Message: "Registration successful"}, nil
}

// Logout always succeeds; the stub keeps no server-side session state.
func (s *Service) Logout(ctx context.Context) error {
	return s.simulateLatency(ctx)
}

// VerifyToken returns the user a token belongs to, or nil if the token is
// expired, malformed, or the user no longer exists.
func (s *Service) VerifyToken(ctx context.Context, token string) (*User, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	s.mu.RLock()
	record, ok := s.usersByID[claims.UserID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	user := record.user
	return &user, nil
}
