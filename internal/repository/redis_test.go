package repository

import (
	"context"
	"testing"
	"time"

	"kolbook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisSessionRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{
			Token:     "tok-1",
			UserID:    "user-1",
			Email:     "anh@agency.vn",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := repo.SetSession(ctx, session)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "tok-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.UserID, got.UserID)
		assert.Equal(t, session.Email, got.Email)
	})

	t.Run("GetNonExistentSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "no-such-token")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		session := &models.Session{Token: "tok-2", UserID: "user-2"}
		repo.SetSession(ctx, session)

		err := repo.ClearSession(ctx, "tok-2")
		require.NoError(t, err)

		got, _ := repo.GetSession(ctx, "tok-2")
		assert.Nil(t, got)
	})

	t.Run("SessionExpires", func(t *testing.T) {
		short := NewRedisSessionRepository(client, time.Second)
		session := &models.Session{Token: "tok-3", UserID: "user-3"}
		require.NoError(t, short.SetSession(ctx, session))

		s.FastForward(2 * time.Second)

		got, err := short.GetSession(ctx, "tok-3")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisSessionRepository(nil, time.Hour)
		_, err := repo.GetSession(ctx, "tok")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
