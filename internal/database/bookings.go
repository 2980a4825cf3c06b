package database

import (
	"context"
	"fmt"

	"kolbook/internal/models"

	"github.com/google/uuid"
)

const bookingColumns = `id, owner_id, campaign_name, product_name,
    kol_profile_id, kol_name, kol_channel_id, kol_writer_name, kol_address, kol_phone, kol_followers,
    cost, deposit, payment_status, content, pic, platform, format, type, status,
    start_date, air_date, post_link, note,
    views, likes, comments, shares, cpv, cpe, created_at`

// ListBookings возвращает бронирования владельца, новые первыми
func (db *DB) ListBookings(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE owner_id = ? ORDER BY created_at DESC`

	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) GetBooking(ctx context.Context, ownerID, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND owner_id = ?`
	row := db.db.QueryRowContext(ctx, query, id, ownerID)
	b, err := scanBooking(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// CreateBooking assigns a generated id and inserts the full record.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (
        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.db.ExecContext(ctx, query, bookingArgs(booking)...)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// ReplaceBooking overwrites every field of an existing record. Partial
// updates do not exist at this layer.
func (db *DB) ReplaceBooking(ctx context.Context, booking *models.Booking) error {
	query := `UPDATE bookings SET
        campaign_name = ?, product_name = ?,
        kol_profile_id = ?, kol_name = ?, kol_channel_id = ?, kol_writer_name = ?,
        kol_address = ?, kol_phone = ?, kol_followers = ?,
        cost = ?, deposit = ?, payment_status = ?, content = ?, pic = ?,
        platform = ?, format = ?, type = ?, status = ?,
        start_date = ?, air_date = ?, post_link = ?, note = ?,
        views = ?, likes = ?, comments = ?, shares = ?, cpv = ?, cpe = ?, created_at = ?
        WHERE id = ? AND owner_id = ?`

	result, err := db.db.ExecContext(ctx, query,
		booking.CampaignName, booking.ProductName,
		booking.KOL.ProfileID, booking.KOL.Name, booking.KOL.ChannelID, booking.KOL.WriterName,
		booking.KOL.Address, booking.KOL.Phone, booking.KOL.Followers,
		booking.Cost, booking.Deposit, booking.PaymentStatus, booking.Content, booking.PIC,
		booking.Platform, booking.Format, booking.Type, booking.Status,
		booking.StartDate, booking.AirDate, booking.PostLink, booking.Note,
		booking.Performance.Views, booking.Performance.Likes, booking.Performance.Comments,
		booking.Performance.Shares, booking.Performance.CPV, booking.Performance.CPE,
		booking.CreatedAt,
		booking.ID, booking.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace booking: %w", err)
	}
	return requireRow(result)
}

func (db *DB) DeleteBooking(ctx context.Context, ownerID, id string) error {
	result, err := db.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return requireRow(result)
}

func bookingArgs(b *models.Booking) []any {
	return []any{
		b.ID, b.OwnerID, b.CampaignName, b.ProductName,
		b.KOL.ProfileID, b.KOL.Name, b.KOL.ChannelID, b.KOL.WriterName,
		b.KOL.Address, b.KOL.Phone, b.KOL.Followers,
		b.Cost, b.Deposit, b.PaymentStatus, b.Content, b.PIC,
		b.Platform, b.Format, b.Type, b.Status,
		b.StartDate, b.AirDate, b.PostLink, b.Note,
		b.Performance.Views, b.Performance.Likes, b.Performance.Comments,
		b.Performance.Shares, b.Performance.CPV, b.Performance.CPE,
		b.CreatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.CampaignName, &b.ProductName,
		&b.KOL.ProfileID, &b.KOL.Name, &b.KOL.ChannelID, &b.KOL.WriterName,
		&b.KOL.Address, &b.KOL.Phone, &b.KOL.Followers,
		&b.Cost, &b.Deposit, &b.PaymentStatus, &b.Content, &b.PIC,
		&b.Platform, &b.Format, &b.Type, &b.Status,
		&b.StartDate, &b.AirDate, &b.PostLink, &b.Note,
		&b.Performance.Views, &b.Performance.Likes, &b.Performance.Comments,
		&b.Performance.Shares, &b.Performance.CPV, &b.Performance.CPE,
		&b.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}
