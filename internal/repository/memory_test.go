package repository

import (
	"context"
	"testing"
	"time"

	"kolbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{Token: "m1", UserID: "user-1"}
		require.NoError(t, repo.SetSession(ctx, session))

		got, err := repo.GetSession(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		session := &models.Session{Token: "m2", UserID: "user-2"}
		repo.SetSession(ctx, session)

		require.NoError(t, repo.ClearSession(ctx, "m2"))

		got, _ := repo.GetSession(ctx, "m2")
		assert.Nil(t, got)
	})

	t.Run("ExpiredSessionEvicted", func(t *testing.T) {
		short := NewMemorySessionRepository(-time.Second)
		session := &models.Session{Token: "m3", UserID: "user-3"}
		require.NoError(t, short.SetSession(ctx, session))

		got, err := short.GetSession(ctx, "m3")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
