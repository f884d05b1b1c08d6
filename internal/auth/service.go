// Package auth owns sign-up, sign-in and the session gate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pizzapalace/internal/config"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"
	sessionrepo "pizzapalace/internal/repository/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest password sign-up accepts.
	MinPasswordLength = 6
	// HomePath is where a signed-out user is sent.
	HomePath = "/"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

type accountRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type sessionRepo interface {
	Create(ctx context.Context, s sessionrepo.Session) error
	Get(ctx context.Context, id string) (*sessionrepo.Session, error)
	Delete(ctx context.Context, id string) error
}

type profileEnsurer interface {
	EnsureExists(ctx context.Context, userID, email, fullName string) error
}

// EventKind names a session change.
type EventKind string

const (
	EventSignedUp  EventKind = "signed_up"
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

type Event struct {
	Kind EventKind
	User domain.User
	At   time.Time
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type SignUpInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
}

type Service struct {
	accounts accountRepo
	profiles profileEnsurer
	tokens   *tokenManager
	logger   *zap.Logger

	mu        sync.Mutex
	listeners map[int]func(context.Context, Event)
	nextID    int
}

func New(accounts accountRepo, sessions sessionRepo, profiles profileEnsurer, cfg config.AuthConfig, log *zap.Logger) *Service {
	s := &Service{
		accounts:  accounts,
		profiles:  profiles,
		tokens:    newTokenManager(sessions, cfg),
		logger:    logger.OrNop(log).Named("auth"),
		listeners: make(map[int]func(context.Context, Event)),
	}
	s.Subscribe(s.ensureProfile)
	return s
}

// ValidateSignUp checks the form without touching the store.
func ValidateSignUp(in SignUpInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	return nil
}

// SignUp registers an account and its profile row.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	if err := ValidateSignUp(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.accounts.Create(ctx, domain.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
	})
	if err != nil {
		return nil, err
	}
	if err := s.profiles.EnsureExists(ctx, u.ID, u.Email, u.FullName); err != nil {
		s.logger.Warn("create profile failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	s.notify(ctx, EventSignedUp, *u)
	return u, nil
}

// SignIn checks credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(ctx, *u)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, EventSignedIn, *u)
	return &Session{Token: token, User: *u, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the session behind token and returns where to send the
// user. The cart is left alone.
func (s *Service) SignOut(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if errors.Is(err, ErrExpiredToken) {
		return HomePath, nil
	}
	if err != nil {
		return "", err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return "", err
	}
	s.notify(ctx, EventSignedOut, domain.User{ID: claims.Subject, Email: claims.Email})
	return HomePath, nil
}

// Authenticate resolves a bearer token into the signed-in user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Subscribe registers fn for session changes and returns its unsubscribe func.
func (s *Service) Subscribe(fn func(context.Context, Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(ctx context.Context, kind EventKind, u domain.User) {
	s.mu.Lock()
	fns := make([]func(context.Context, Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	ev := Event{Kind: kind, User: u, At: time.Now()}
	for _, fn := range fns {
		fn(ctx, ev)
	}
	s.logger.Debug("session changed", zap.String("kind", string(kind)), zap.String("user_id", u.ID))
}

func (s *Service) ensureProfile(ctx context.Context, ev Event) {
	if ev.Kind != EventSignedIn {
		return
	}
	if err := s.profiles.EnsureExists(ctx, ev.User.ID, ev.User.Email, ev.User.FullName); err != nil {
		s.logger.Warn("ensure profile failed", zap.String("user_id", ev.User.ID), zap.Error(err))
	}
}
