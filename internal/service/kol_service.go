package service

import (
	"context"
	"fmt"

	"kolbook/internal/domain"
	"kolbook/internal/models"
	"kolbook/internal/query"

	"github.com/rs/zerolog"
)

// KOLService manages the contact library. Profiles live their own life;
// bookings only ever hold a snapshot taken at selection time.
type KOLService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewKOLService(store domain.Store, logger *zerolog.Logger) *KOLService {
	return &KOLService{
		store:  store,
		logger: logger,
	}
}

func (s *KOLService) ListKOLs(ctx context.Context, ownerID string) ([]*models.KOLProfile, error) {
	return s.store.ListKOLs(ctx, ownerID)
}

func (s *KOLService) SearchKOLs(ctx context.Context, ownerID, term string) ([]*models.KOLProfile, error) {
	kols, err := s.store.ListKOLs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return query.SearchKOLs(kols, term), nil
}

func (s *KOLService) GetKOL(ctx context.Context, ownerID, id string) (*models.KOLProfile, error) {
	return s.store.GetKOL(ctx, ownerID, id)
}

func (s *KOLService) CreateKOL(ctx context.Context, kol *models.KOLProfile) error {
	if err := validateKOL(kol); err != nil {
		return err
	}
	return s.store.CreateKOL(ctx, kol)
}

func (s *KOLService) UpdateKOL(ctx context.Context, kol *models.KOLProfile) error {
	if err := validateKOL(kol); err != nil {
		return err
	}
	return s.store.ReplaceKOL(ctx, kol)
}

func (s *KOLService) DeleteKOL(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteKOL(ctx, ownerID, id)
}

func validateKOL(kol *models.KOLProfile) error {
	if kol.Name == "" {
		return fmt.Errorf("kol name is required")
	}
	if kol.Followers < 0 {
		return fmt.Errorf("followers must be non-negative")
	}
	if kol.Rating < 0 || kol.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}
