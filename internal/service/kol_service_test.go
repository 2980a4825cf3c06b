package service

import (
	"context"
	"io"
	"testing"

	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKOLService(t *testing.T) {
	store := setupStore(t)
	logger := zerolog.New(io.Discard)
	svc := NewKOLService(store, &logger)
	ctx := context.Background()

	t.Run("CreateAndSearch", func(t *testing.T) {
		require.NoError(t, svc.CreateKOL(ctx, &models.KOLProfile{
			OwnerID:   "owner-1",
			Name:      "Linh Chi Review",
			ChannelID: "@linhchi",
			Platform:  models.PlatformTikTok,
			Followers: 300000,
			Tags:      []string{"beauty", "skincare"},
		}))
		require.NoError(t, svc.CreateKOL(ctx, &models.KOLProfile{
			OwnerID:   "owner-1",
			Name:      "Tuan Tech",
			ChannelID: "@tuantech",
			Platform:  models.PlatformYouTube,
			Followers: 800000,
		}))

		found, err := svc.SearchKOLs(ctx, "owner-1", "linh")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Linh Chi Review", found[0].Name)

		all, err := svc.SearchKOLs(ctx, "owner-1", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Validation", func(t *testing.T) {
		assert.Error(t, svc.CreateKOL(ctx, &models.KOLProfile{OwnerID: "owner-1"}))
		assert.Error(t, svc.CreateKOL(ctx, &models.KOLProfile{OwnerID: "owner-1", Name: "X", Followers: -5}))
		assert.Error(t, svc.CreateKOL(ctx, &models.KOLProfile{OwnerID: "owner-1", Name: "X", Rating: 9}))
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		kols, err := svc.ListKOLs(ctx, "owner-1")
		require.NoError(t, err)
		require.NotEmpty(t, kols)

		kol := kols[0]
		kol.Rating = 5
		require.NoError(t, svc.UpdateKOL(ctx, kol))

		got, err := svc.GetKOL(ctx, "owner-1", kol.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Rating)

		require.NoError(t, svc.DeleteKOL(ctx, "owner-1", kol.ID))
		_, err = svc.GetKOL(ctx, "owner-1", kol.ID)
		assert.Error(t, err)
	})
}
