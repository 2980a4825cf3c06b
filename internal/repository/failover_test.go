package repository

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockSessionRepo) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) ClearSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func TestFailoverSessionRepository(t *testing.T) {
	primary := new(mockSessionRepo)
	fallback := new(mockSessionRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		session := &models.Session{Token: "t1"}
		primary.On("GetSession", ctx, "t1").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "t1")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		session := &models.Session{Token: "t2"}
		primary.On("GetSession", ctx, "t2").Return(nil, errors.New("fail")).Once()
		fallback.On("GetSession", ctx, "t2").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "t2")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

		session := &models.Session{Token: "t3"}
		primary.On("GetSession", ctx, "t3").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "t3")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

		primary.On("GetSession", ctx, "t4").Return(nil, errors.New("still fail")).Once()
		fallback.On("GetSession", ctx, "t4").Return(nil, nil).Once()

		_, err := repo.GetSession(ctx, "t4")
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionMirrorsToFallback", func(t *testing.T) {
		repo.isDown.Store(false)
		session := &models.Session{Token: "t5"}
		primary.On("SetSession", ctx, session).Return(nil).Once()
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		err := repo.SetSession(ctx, session)
		assert.NoError(t, err)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		session := &models.Session{Token: "t6"}
		primary.On("SetSession", ctx, session).Return(errors.New("fail")).Once()
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		err := repo.SetSession(ctx, session)
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionSuccess", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("ClearSession", ctx, "t7").Return(nil).Once()
		fallback.On("ClearSession", ctx, "t7").Return(nil).Once()

		err := repo.ClearSession(ctx, "t7")
		assert.NoError(t, err)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("ClearSession", ctx, "t8").Return(errors.New("fail")).Once()
		fallback.On("ClearSession", ctx, "t8").Return(nil).Once()

		err := repo.ClearSession(ctx, "t8")
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetSessionAlreadyDown", func(t *testing.T) {
		repo.isDown.Store(true)
		session := &models.Session{Token: "t9"}
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		err := repo.SetSession(ctx, session)
		assert.NoError(t, err)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionAlreadyDown", func(t *testing.T) {
		repo.isDown.Store(true)
		fallback.On("ClearSession", ctx, "t10").Return(nil).Once()

		err := repo.ClearSession(ctx, "t10")
		assert.NoError(t, err)
		fallback.AssertExpectations(t)
	})
}

type failingSessionRepo struct{}

func (failingSessionRepo) GetSession(context.Context, string) (*models.Session, error) {
	return nil, errors.New("down")
}

func (failingSessionRepo) SetSession(context.Context, *models.Session) error {
	return errors.New("down")
}

func (failingSessionRepo) ClearSession(context.Context, string) error {
	return errors.New("down")
}

// Parallel requests hit the recovery bookkeeping at once; run with -race.
func TestFailoverConcurrentAccess(t *testing.T) {
	logger := zerolog.New(io.Discard)
	repo := NewFailoverSessionRepository(failingSessionRepo{}, NewMemorySessionRepository(time.Hour), &logger)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			session := &models.Session{Token: "t", UserID: "u"}
			for j := 0; j < 50; j++ {
				_ = repo.SetSession(ctx, session)
				_, _ = repo.GetSession(ctx, "t")
				if n%4 == 0 {
					repo.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())
				}
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, repo.isDown.Load())
}
