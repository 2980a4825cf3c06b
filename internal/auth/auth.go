package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kolbook/internal/config"
	"kolbook/internal/database"
	"kolbook/internal/domain"
	"kolbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
)

// Service handles account registration and session lifecycle. Sessions are
// opaque UUID tokens stored in the session repository with a TTL; callers
// observe auth state changes through Subscribe.
type Service struct {
	users    domain.UserStore
	sessions domain.SessionRepository
	cfg      config.AuthConfig
	logger   *zerolog.Logger

	listeners []func(session *models.Session)
}

func NewService(users domain.UserStore, sessions domain.SessionRepository, cfg config.AuthConfig, logger *zerolog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Subscribe registers a callback fired after every successful sign-in and
// sign-out. A nil session means signed out.
func (s *Service) Subscribe(fn func(session *models.Session)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(session *models.Session) {
	for _, fn := range s.listeners {
		fn(session)
	}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < s.cfg.MinPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("User registered")
	return s.openSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Одинаковый ответ для неизвестного email и неверного пароля
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateUserActivity(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update user activity")
	}

	return s.openSession(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.ClearSession(ctx, token); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.notify(nil)
	return nil
}

// Authenticate resolves a bearer token to its session, or nil when the token
// is unknown or expired.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.GetSession(ctx, token)
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Session opened")
	s.notify(session)
	return session, nil
}

// SessionTTL resolves the configured session lifetime.
func SessionTTL(cfg config.AuthConfig) time.Duration {
	if cfg.SessionTTLHours <= 0 {
		return time.Duration(models.DefaultSessionTTL) * time.Second
	}
	return time.Duration(cfg.SessionTTLHours) * time.Hour
}
