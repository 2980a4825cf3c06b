// Bulk-loads a KOL library from yaml into the sqlite database.
// Existing profiles are matched by name and overwritten.
//
// Usage: go run scripts/import_kols.go -kols configs/kols.yaml -owner <user-id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"kolbook/internal/database"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

type KOLsConfig struct {
	KOLs []models.KOLProfile `yaml:"kols"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		kolsPath = flag.String("kols", "configs/kols.yaml", "path to kols.yaml")
		dbPath   = flag.String("db", "./data/kolbook.db", "path to sqlite db")
		owner    = flag.String("owner", "", "owner user id or email")
	)
	flag.Parse()

	if *owner == "" {
		return fmt.Errorf("-owner is required")
	}

	data, err := os.ReadFile(*kolsPath)
	if err != nil {
		return fmt.Errorf("read kols: %w", err)
	}
	var cfg KOLsConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse kols: %w", err)
	}
	if len(cfg.KOLs) == 0 {
		return fmt.Errorf("no kols in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ownerID, err := resolveOwner(ctx, db, *owner)
	if err != nil {
		return err
	}

	existing, err := db.ListKOLs(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list kols: %w", err)
	}
	byName := make(map[string]*models.KOLProfile, len(existing))
	for _, k := range existing {
		byName[k.Name] = k
	}

	created := 0
	updated := 0
	for i := range cfg.KOLs {
		kol := cfg.KOLs[i]
		if kol.Name == "" {
			continue
		}
		kol.OwnerID = ownerID

		if prev, ok := byName[kol.Name]; ok {
			kol.ID = prev.ID
			if err = db.ReplaceKOL(ctx, &kol); err != nil {
				return fmt.Errorf("update %s: %w", kol.Name, err)
			}
			updated++
			continue
		}
		if err = db.CreateKOL(ctx, &kol); err != nil {
			return fmt.Errorf("create %s: %w", kol.Name, err)
		}
		created++
	}

	logger.Info().Int("created", created).Int("updated", updated).Msg("kol import done")
	return nil
}

// resolveOwner accepts either a raw user id or an email.
func resolveOwner(ctx context.Context, db *database.DB, owner string) (string, error) {
	if user, err := db.GetUserByEmail(ctx, owner); err == nil {
		return user.ID, nil
	}
	user, err := db.GetUserByID(ctx, owner)
	if err != nil {
		return "", fmt.Errorf("owner %q not found: %w", owner, err)
	}
	return user.ID, nil
}
