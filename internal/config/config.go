package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Google     GoogleConfig     `yaml:"google"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Gemini     GeminiConfig     `yaml:"gemini"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	SessionTTLHours int `yaml:"session_ttl_hours"`
	BcryptCost      int `yaml:"bcrypt_cost"`
	MinPasswordLen  int `yaml:"min_password_len"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile       string `yaml:"credentials_file"`
	BookingsSpreadsheetID string `yaml:"bookings_spreadsheet_id"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен, но если есть — подхватываем
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram chat_id is required when bot_token is set")
	}
	if c.Google.CredentialsFile != "" && c.Google.BookingsSpreadsheetID == "" {
		return errors.New("google bookings_spreadsheet_id is required when credentials_file is set")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.RateLimit.RPS == 0 {
		c.HTTP.RateLimit.RPS = 25
	}
	if c.HTTP.RateLimit.Burst == 0 {
		c.HTTP.RateLimit.Burst = 50
	}
	if c.Auth.SessionTTLHours == 0 {
		c.Auth.SessionTTLHours = 24
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Auth.MinPasswordLen == 0 {
		c.Auth.MinPasswordLen = 8
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// Exports.Path has no default: an empty path disables the xlsx endpoint
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
}
