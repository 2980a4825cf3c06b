package database

import (
	"context"
	"encoding/json"
	"fmt"

	"kolbook/internal/models"

	"github.com/google/uuid"
)

const kolColumns = `id, owner_id, name, channel_id, platform, followers,
    phone, address, rate_card, avg_views, rating, tags, notes`

func (db *DB) ListKOLs(ctx context.Context, ownerID string) ([]*models.KOLProfile, error) {
	query := `SELECT ` + kolColumns + ` FROM kols WHERE owner_id = ? ORDER BY name`

	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kols: %w", err)
	}
	defer rows.Close()

	var kols []*models.KOLProfile
	for rows.Next() {
		k, err := scanKOL(rows)
		if err != nil {
			return nil, err
		}
		kols = append(kols, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kols: %w", err)
	}
	return kols, nil
}

func (db *DB) GetKOL(ctx context.Context, ownerID, id string) (*models.KOLProfile, error) {
	query := `SELECT ` + kolColumns + ` FROM kols WHERE id = ? AND owner_id = ?`
	k, err := scanKOL(db.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return k, nil
}

func (db *DB) CreateKOL(ctx context.Context, kol *models.KOLProfile) error {
	if kol.ID == "" {
		kol.ID = uuid.NewString()
	}

	query := `INSERT INTO kols (` + kolColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.db.ExecContext(ctx, query,
		kol.ID, kol.OwnerID, kol.Name, kol.ChannelID, kol.Platform, kol.Followers,
		kol.Phone, kol.Address, kol.RateCard, kol.AvgViews, kol.Rating,
		encodeTags(kol.Tags), kol.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create kol: %w", err)
	}
	return nil
}

func (db *DB) ReplaceKOL(ctx context.Context, kol *models.KOLProfile) error {
	query := `UPDATE kols SET
        name = ?, channel_id = ?, platform = ?, followers = ?,
        phone = ?, address = ?, rate_card = ?, avg_views = ?, rating = ?, tags = ?, notes = ?
        WHERE id = ? AND owner_id = ?`

	result, err := db.db.ExecContext(ctx, query,
		kol.Name, kol.ChannelID, kol.Platform, kol.Followers,
		kol.Phone, kol.Address, kol.RateCard, kol.AvgViews, kol.Rating,
		encodeTags(kol.Tags), kol.Notes,
		kol.ID, kol.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace kol: %w", err)
	}
	return requireRow(result)
}

func (db *DB) DeleteKOL(ctx context.Context, ownerID, id string) error {
	result, err := db.db.ExecContext(ctx,
		`DELETE FROM kols WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete kol: %w", err)
	}
	return requireRow(result)
}

// Tags are stored as a JSON array in a TEXT column.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

func scanKOL(row rowScanner) (*models.KOLProfile, error) {
	var k models.KOLProfile
	var rawTags string
	err := row.Scan(
		&k.ID, &k.OwnerID, &k.Name, &k.ChannelID, &k.Platform, &k.Followers,
		&k.Phone, &k.Address, &k.RateCard, &k.AvgViews, &k.Rating, &rawTags, &k.Notes,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan kol: %w", err)
	}
	k.Tags = decodeTags(rawTags)
	return &k, nil
}
