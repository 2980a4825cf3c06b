package repository

import (
	"context"
	"sync/atomic"
	"time"

	"kolbook/internal/domain"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
)

type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// unix nanos of the last failed primary attempt; atomic, запросы идут параллельно
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) recoveryDue() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, token)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && r.recoveryDue() {
		session, err := r.primary.GetSession(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetSession(ctx, token)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			// Дублируем в память, чтобы пережить падение Redis
			_ = r.fallback.SetSession(ctx, session)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, token)
		if err == nil {
			_ = r.fallback.ClearSession(ctx, token)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, token)
}
