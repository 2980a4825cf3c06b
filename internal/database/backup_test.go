package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kolbook/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	storagePath := filepath.Join(tempDir, "backups")

	// Source DB with one row so the snapshot can be verified
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE kols (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO kols (name) VALUES ('Mai Beauty')")
	require.NoError(t, err)
	db.Close()

	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	logger := zerolog.Nop()
	s := NewBackupService(dbPath, cfg, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		err := s.PerformBackup()
		assert.NoError(t, err)

		files, err := os.ReadDir(storagePath)
		require.NoError(t, err)
		require.Len(t, files, 1)

		// The copy must be a consistent, openable database
		backup, err := sql.Open("sqlite3", filepath.Join(storagePath, files[0].Name()))
		require.NoError(t, err)
		defer backup.Close()

		var name string
		err = backup.QueryRow("SELECT name FROM kols").Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "Mai Beauty", name)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, "backup_old.db")
		err := os.WriteFile(oldFile, []byte("old"), 0o644)
		require.NoError(t, err)

		oldTime := time.Now().AddDate(0, 0, -2)
		err = os.Chtimes(oldFile, oldTime, oldTime)
		require.NoError(t, err)

		s.CleanupOldBackups()

		files, err := os.ReadDir(storagePath)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
		assert.NotEqual(t, "backup_old.db", files[0].Name())
	})
}

func TestBackupService_Disabled(_ *testing.T) {
	logger := zerolog.Nop()
	s := NewBackupService("any", config.BackupConfig{Enabled: false}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
	// Should just return
}
