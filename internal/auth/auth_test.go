package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"kolbook/internal/config"
	"kolbook/internal/database"
	"kolbook/internal/models"
	"kolbook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) *Service {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions := repository.NewMemorySessionRepository(time.Hour)
	cfg := config.AuthConfig{
		SessionTTLHours: 24,
		BcryptCost:      4, // минимальная стоимость, чтобы тесты не тормозили
		MinPasswordLen:  8,
	}
	return NewService(db, sessions, cfg, &logger)
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "Anh@Agency.VN", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "anh@agency.vn", session.Email)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.SignUp(ctx, "anh@agency.vn", "another-pass")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("SignInCorrectPassword", func(t *testing.T) {
		got, err := svc.SignIn(ctx, "anh@agency.vn", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, session.UserID, got.UserID)
		assert.NotEqual(t, session.Token, got.Token)
	})

	t.Run("SignInWrongPassword", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "anh@agency.vn", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("SignInUnknownEmail", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "nobody@agency.vn", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSignUpValidation(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "short@agency.vn", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticateAndSignOut(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "pic@agency.vn", "s3cret-pass")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.UserID, got.UserID)

	require.NoError(t, svc.SignOut(ctx, session.Token))

	got, err = svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	t.Run("EmptyToken", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSubscribe(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	var states []*models.Session
	svc.Subscribe(func(session *models.Session) {
		states = append(states, session)
	})

	session, err := svc.SignUp(ctx, "watcher@agency.vn", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, session.Token))

	require.Len(t, states, 2)
	assert.Equal(t, session.Token, states[0].Token)
	assert.Nil(t, states[1])
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 6*time.Hour, SessionTTL(config.AuthConfig{SessionTTLHours: 6}))
	assert.Equal(t, 24*time.Hour, SessionTTL(config.AuthConfig{}))
}
