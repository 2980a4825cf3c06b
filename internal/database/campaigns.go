package database

import (
	"context"
	"fmt"

	"kolbook/internal/models"

	"github.com/google/uuid"
)

const campaignColumns = `id, owner_id, name, target, budget, start_date, end_date, status, description`

func (db *DB) ListCampaigns(ctx context.Context, ownerID string) ([]*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner_id = ? ORDER BY start_date DESC`

	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func (db *DB) GetCampaign(ctx context.Context, ownerID, id string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ? AND owner_id = ?`
	c, err := scanCampaign(db.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetCampaignByName resolves the name-based join from bookings.
func (db *DB) GetCampaignByName(ctx context.Context, ownerID, name string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE name = ? AND owner_id = ?`
	c, err := scanCampaign(db.db.QueryRowContext(ctx, query, name, ownerID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (db *DB) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}

	query := `INSERT INTO campaigns (` + campaignColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.db.ExecContext(ctx, query,
		campaign.ID, campaign.OwnerID, campaign.Name, campaign.Target, campaign.Budget,
		campaign.StartDate, campaign.EndDate, campaign.Status, campaign.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (db *DB) ReplaceCampaign(ctx context.Context, campaign *models.Campaign) error {
	query := `UPDATE campaigns SET
        name = ?, target = ?, budget = ?, start_date = ?, end_date = ?, status = ?, description = ?
        WHERE id = ? AND owner_id = ?`

	result, err := db.db.ExecContext(ctx, query,
		campaign.Name, campaign.Target, campaign.Budget,
		campaign.StartDate, campaign.EndDate, campaign.Status, campaign.Description,
		campaign.ID, campaign.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace campaign: %w", err)
	}
	return requireRow(result)
}

func (db *DB) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	result, err := db.db.ExecContext(ctx,
		`DELETE FROM campaigns WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return requireRow(result)
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Target, &c.Budget,
		&c.StartDate, &c.EndDate, &c.Status, &c.Description,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	return &c, nil
}
