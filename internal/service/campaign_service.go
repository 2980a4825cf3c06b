package service

import (
	"context"
	"fmt"

	"kolbook/internal/domain"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
)

type CampaignService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewCampaignService(store domain.Store, logger *zerolog.Logger) *CampaignService {
	return &CampaignService{
		store:  store,
		logger: logger,
	}
}

func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string) ([]*models.Campaign, error) {
	return s.store.ListCampaigns(ctx, ownerID)
}

func (s *CampaignService) GetCampaign(ctx context.Context, ownerID, id string) (*models.Campaign, error) {
	return s.store.GetCampaign(ctx, ownerID, id)
}

func (s *CampaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if err := validateCampaign(campaign); err != nil {
		return err
	}
	return s.store.CreateCampaign(ctx, campaign)
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if err := validateCampaign(campaign); err != nil {
		return err
	}
	return s.store.ReplaceCampaign(ctx, campaign)
}

// DeleteCampaign removes the campaign record only. Bookings referencing it by
// name keep their label and show up as spend without a budget.
func (s *CampaignService) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteCampaign(ctx, ownerID, id)
}

// SpentByName sums booking cost per campaign name across all of the owner's
// bookings, cancelled included. A cancelled deal still consumed budget.
func (s *CampaignService) SpentByName(ctx context.Context, ownerID string) (map[string]int64, error) {
	bookings, err := s.store.ListBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	spent := make(map[string]int64)
	for _, b := range bookings {
		if b.CampaignName == "" {
			continue
		}
		spent[b.CampaignName] += b.Cost
	}
	return spent, nil
}

func validateCampaign(campaign *models.Campaign) error {
	if campaign.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if campaign.Budget < 0 {
		return fmt.Errorf("budget must be non-negative")
	}
	switch campaign.Status {
	case "", models.CampaignPlanned, models.CampaignActive, models.CampaignCompleted:
	default:
		return fmt.Errorf("unknown campaign status %q", campaign.Status)
	}
	if campaign.Status == "" {
		campaign.Status = models.CampaignPlanned
	}
	return nil
}
