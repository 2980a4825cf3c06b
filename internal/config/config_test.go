package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: kolbook
  environment: test
database:
  path: data/kolbook.db
http:
  port: 9000
auth:
  session_ttl_hours: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kolbook", cfg.App.Name)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 8, cfg.Auth.SessionTTLHours)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/kolbook.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 24, cfg.Auth.SessionTTLHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLen)
	assert.Equal(t, float64(25), cfg.HTTP.RateLimit.RPS)
	// no default export path: empty keeps the xlsx endpoint disabled
	assert.Equal(t, "", cfg.Exports.Path)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("KOLBOOK_DB_PATH", "/tmp/test.db")
	path := writeConfig(t, `
database:
  path: ${KOLBOOK_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: kolbook
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "database path is required")
	})

	t.Run("TelegramTokenWithoutChat", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/kolbook.db
telegram:
  bot_token: "123:abc"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "telegram chat_id is required")
	})

	t.Run("SheetsCredentialsWithoutSpreadsheet", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/kolbook.db
google:
  credentials_file: creds.json
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "bookings_spreadsheet_id is required")
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
