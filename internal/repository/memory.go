package repository

import (
	"context"
	"sync"
	"time"

	"kolbook/internal/models"
)

type memorySessionEntry struct {
	session   *models.Session
	expiresAt time.Time
}

type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl: ttl,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(*memorySessionEntry)
	if time.Now().After(entry.expiresAt) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	r.sessions.Store(session.Token, &memorySessionEntry{
		session:   session,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}
