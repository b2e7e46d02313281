package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired or unknown")
)

const sessionTTL = 12 * time.Hour

type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(token string)
	// Validate resolves a bearer token to the owning session.
	Validate(token string) (*Session, error)
	Register(ctx context.Context, username, password string) (*Admin, error)
}

type service struct {
	repo Repository

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate session token: %w", err)
	}

	sess := &Session{
		Token:     token.String(),
		AdminID:   admin.ID,
		Username:  admin.Username,
		ExpiresAt: s.now().Add(sessionTTL),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	log.Info().Str("username", username).Msg("auth: admin logged in")
	return sess, nil
}

func (s *service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *service) Validate(token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionExpired
	}
	if s.now().After(sess.ExpiresAt) {
		s.Logout(token)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

func (s *service) Register(ctx context.Context, username, password string) (*Admin, error) {
	if username == "" || len(password) < 8 {
		return nil, errors.New("service: username required and password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}

	admin := &Admin{Username: username, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrAdminExists) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("service: failed to create admin: %w", err)
	}

	log.Info().Str("username", username).Msg("auth: admin registered")
	return admin, nil
}
