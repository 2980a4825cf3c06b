package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kolbook/internal/api"
	"kolbook/internal/auth"
	"kolbook/internal/config"
	"kolbook/internal/database"
	"kolbook/internal/domain"
	"kolbook/internal/events"
	"kolbook/internal/export"
	"kolbook/internal/genai"
	"kolbook/internal/google"
	"kolbook/internal/logging"
	"kolbook/internal/metrics"
	"kolbook/internal/notify"
	"kolbook/internal/repository"
	"kolbook/internal/service"
	"kolbook/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := initSessions(cfg, &logger)
	authService := auth.NewService(db, sessions, cfg.Auth, &logger)

	bus := events.NewEventBus()
	initTelegram(cfg, bus, &logger)

	// Типизированный nil в интерфейсе обходит проверку в сервисе
	var syncWorker domain.SyncWorker
	if w := initSheetsSync(ctx, cfg, db, &logger); w != nil {
		syncWorker = w
	}

	bookings := service.NewBookingService(db, bus, syncWorker, &logger)
	kols := service.NewKOLService(db, &logger)
	campaigns := service.NewCampaignService(db, &logger)
	briefs := genai.NewClient(cfg.Gemini, &logger)

	var exporter api.Exporter
	if cfg.Exports.Path != "" {
		exporter = export.NewExcelExporter(cfg.Exports.Path, &logger)
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	httpServer := api.NewHTTPServer(cfg.HTTP, authService, bookings, kols, campaigns, briefs, exporter, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info().Msg("API server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initSessions returns a redis-backed session store with an in-memory
// fallback, or the memory store alone when redis is not configured.
func initSessions(cfg *config.Config, logger *zerolog.Logger) *repository.FailoverSessionRepository {
	ttl := auth.SessionTTL(cfg.Auth)
	memory := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Warn().Msg("redis is not configured, sessions are in-memory only")
		return repository.NewFailoverSessionRepository(memory, memory, logger)
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, starting in degraded mode")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisSessionRepository(client, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.ChatID, logger)
	notifier.SubscribeTo(bus)
	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram notifications enabled")
}

func initSheetsSync(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) *worker.SheetsSyncWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return nil
	}

	sheets, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sync")
		return nil
	}
	if err := sheets.TestConnection(ctx); err != nil {
		email, _ := sheets.GetServiceAccountEmail(cfg.Google.CredentialsFile)
		logger.Warn().Err(err).Str("service_account", email).Msg("google sheets unreachable, continuing without sync")
		return nil
	}

	retry := worker.RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  2 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
	}
	w := worker.NewSheetsSyncWorker(db, sheets, retry, logger)
	go w.Start(ctx)

	logger.Info().Msg("google sheets sync enabled")
	return w
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
