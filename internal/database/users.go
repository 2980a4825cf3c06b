package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kolbook/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()

	_, err := db.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, last_activity) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	user.LastActivity = now
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := db.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_activity FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastActivity)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := db.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_activity FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastActivity)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) UpdateUserActivity(ctx context.Context, id string) error {
	_, err := db.db.ExecContext(ctx,
		`UPDATE users SET last_activity = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user activity: %w", err)
	}
	return nil
}
