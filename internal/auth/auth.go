// Package auth implements credential verification and session issuance for
// the learning journal.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mwarner/learnlog/internal/config"
	"github.com/mwarner/learnlog/internal/models"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
	"github.com/mwarner/learnlog/pkg/utils"
)

// ErrInvalidCredentials is returned for every failed login, whether the
// username is unknown or the password is wrong, so responses carry no
// user-enumeration signal.
var ErrInvalidCredentials = errors.New("your username or password doesn't match")

// Service verifies credentials and manages login sessions.
type Service struct {
	store    *store.Journal
	sessions *services.SessionStore
	log      zerolog.Logger
}

// NewService wires the auth service to its store and session backend.
func NewService(journal *store.Journal, sessions *services.SessionStore, log zerolog.Logger) *Service {
	return &Service{store: journal, sessions: sessions, log: log}
}

// Register creates a user with a hashed password. The insert is atomic; a
// username or email collision surfaces as store.ErrDuplicateUser with no
// partial record left behind.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, username, email, hash)
}

// Authenticate checks a username/password pair and, on success, issues a
// session bound to the user. Unknown usernames burn a dummy hash compare so
// failure timing matches the wrong-password path.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.DummyVerify(password)
			s.log.Info().Str("username", username).Msg("login failed")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		s.log.Info().Str("username", username).Msg("login failed")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return token, user, nil
}

// Logout invalidates the session immediately. Idempotent.
func (s *Service) Logout(token string) {
	s.sessions.Invalidate(token)
}

// Seed creates the bootstrap user from config when the store is empty. A
// duplicate on seed is ignored, matching first-run-then-restart usage.
func (s *Service) Seed(ctx context.Context, cfg *config.Config) error {
	if cfg.SeedUsername == "" || cfg.SeedPassword == "" {
		return nil
	}

	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.Register(ctx, cfg.SeedUsername, cfg.SeedEmail, cfg.SeedPassword)
	if errors.Is(err, store.ErrDuplicateUser) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	s.log.Info().Str("username", cfg.SeedUsername).Msg("seeded initial user")
	return nil
}
