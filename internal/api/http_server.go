package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kolbook/internal/auth"
	"kolbook/internal/config"
	"kolbook/internal/domain"
	"kolbook/internal/metrics"
	"kolbook/internal/models"
	"kolbook/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer is the JSON API consumed by the dashboard UI.
type HTTPServer struct {
	cfg       config.HTTPConfig
	auth      *auth.Service
	bookings  *service.BookingService
	kols      *service.KOLService
	campaigns *service.CampaignService
	briefs    domain.BriefGenerator
	exports   Exporter
	server    *http.Server
	limiter   *rateLimiter
	logger    *zerolog.Logger
}

// Exporter produces the downloadable workbook; nil disables the endpoint.
type Exporter interface {
	ExportBookings(bookings []*models.Booking, campaigns []*models.Campaign, spentByName map[string]int64) (string, error)
}

func NewHTTPServer(
	cfg config.HTTPConfig,
	authService *auth.Service,
	bookings *service.BookingService,
	kols *service.KOLService,
	campaigns *service.CampaignService,
	briefs domain.BriefGenerator,
	exports Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		auth:      authService,
		bookings:  bookings,
		kols:      kols,
		campaigns: campaigns,
		briefs:    briefs,
		exports:   exports,
		limiter:   newRateLimiter(cfg.RateLimit),
		logger:    logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", srv.handleHealth)
	mux.HandleFunc("/api/v1/auth/signup", srv.handleSignUp)
	mux.HandleFunc("/api/v1/auth/signin", srv.handleSignIn)
	mux.HandleFunc("/api/v1/auth/signout", srv.withSession(srv.handleSignOut))
	mux.HandleFunc("/api/v1/auth/me", srv.withSession(srv.handleMe))

	mux.HandleFunc("/api/v1/bookings", srv.withSession(srv.handleBookings))
	mux.HandleFunc("/api/v1/bookings/combo", srv.withSession(srv.handleCombo))
	mux.HandleFunc("/api/v1/bookings/export", srv.withSession(srv.handleExportCSV))
	mux.HandleFunc("/api/v1/bookings/export/xlsx", srv.withSession(srv.handleExportXLSX))
	mux.HandleFunc("/api/v1/bookings/budget", srv.withSession(srv.handleBudgetContext))
	mux.HandleFunc("/api/v1/bookings/analyze", srv.withSession(srv.handleAnalyze))
	mux.HandleFunc("/api/v1/bookings/calendar", srv.withSession(srv.handleCalendar))
	mux.HandleFunc("/api/v1/bookings/", srv.withSession(srv.handleBookingByID))

	mux.HandleFunc("/api/v1/kols", srv.withSession(srv.handleKOLs))
	mux.HandleFunc("/api/v1/kols/", srv.withSession(srv.handleKOLByID))

	mux.HandleFunc("/api/v1/campaigns", srv.withSession(srv.handleCampaigns))
	mux.HandleFunc("/api/v1/campaigns/", srv.withSession(srv.handleCampaignByID))

	mux.HandleFunc("/api/v1/dashboard", srv.withSession(srv.handleDashboard))

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
