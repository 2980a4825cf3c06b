package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to a
	// different owner. The gateway does not distinguish the two cases.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned on sign-up with an already registered email.
	ErrEmailTaken = errors.New("email already registered")
)

// DB is the persistence gateway: owner-scoped CRUD over the three dashboard
// collections plus the accounts table. Every write is a full-record replace.
type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		// Создаем директорию для БД, если её нет
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Аккаунты дашборда
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            last_activity DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		// Бронирования
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            campaign_name TEXT NOT NULL,
            product_name TEXT NOT NULL,
            kol_profile_id TEXT,
            kol_name TEXT NOT NULL,
            kol_channel_id TEXT,
            kol_writer_name TEXT,
            kol_address TEXT,
            kol_phone TEXT,
            kol_followers INTEGER NOT NULL DEFAULT 0,
            cost INTEGER NOT NULL DEFAULT 0,
            deposit INTEGER NOT NULL DEFAULT 0,
            payment_status TEXT NOT NULL DEFAULT 'unpaid',
            content TEXT,
            pic TEXT,
            platform TEXT NOT NULL,
            format TEXT NOT NULL,
            type TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'contacted',
            start_date TEXT NOT NULL,
            air_date TEXT,
            post_link TEXT,
            note TEXT,
            views INTEGER NOT NULL DEFAULT 0,
            likes INTEGER NOT NULL DEFAULT 0,
            comments INTEGER NOT NULL DEFAULT 0,
            shares INTEGER NOT NULL DEFAULT 0,
            cpv INTEGER NOT NULL DEFAULT 0,
            cpe INTEGER NOT NULL DEFAULT 0,
            created_at INTEGER NOT NULL
        )`,
		// Библиотека KOL
		`CREATE TABLE IF NOT EXISTS kols (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT NOT NULL,
            channel_id TEXT,
            platform TEXT NOT NULL,
            followers INTEGER NOT NULL DEFAULT 0,
            phone TEXT,
            address TEXT,
            rate_card INTEGER NOT NULL DEFAULT 0,
            avg_views INTEGER NOT NULL DEFAULT 0,
            rating INTEGER NOT NULL DEFAULT 0,
            tags TEXT,
            notes TEXT
        )`,
		// Кампании
		`CREATE TABLE IF NOT EXISTS campaigns (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT NOT NULL,
            target TEXT,
            budget INTEGER NOT NULL DEFAULT 0,
            start_date TEXT,
            end_date TEXT,
            status TEXT NOT NULL DEFAULT 'planned',
            description TEXT
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_owner_id ON bookings(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_campaign_name ON bookings(campaign_name)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_kols_owner_id ON kols(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_owner_id ON campaigns(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// requireRow maps a zero-row write to ErrNotFound: either the id does not
// exist or it belongs to another owner.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
