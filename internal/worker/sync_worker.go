package worker

import (
	"context"
	"sync"
	"time"

	"kolbook/internal/domain"
	"kolbook/internal/metrics"
	"kolbook/internal/models"

	"github.com/rs/zerolog"
)

// SheetsSyncWorker mirrors booking data into Google Sheets in the
// background. Requests are coalesced per owner: while a sync for an owner is
// queued, further requests for the same owner are no-ops, so a burst of
// edits produces one refresh.
type SheetsSyncWorker struct {
	store  domain.Store
	sheets domain.SheetsWriter
	retry  RetryPolicy
	queue  chan string
	queued sync.Map
	logger *zerolog.Logger
}

func NewSheetsSyncWorker(store domain.Store, sheets domain.SheetsWriter, retry RetryPolicy, logger *zerolog.Logger) *SheetsSyncWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsSyncWorker{
		store:  store,
		sheets: sheets,
		retry:  retry,
		queue:  make(chan string, models.WorkerQueueSize),
		logger: logger,
	}
}

// EnqueueSync schedules a mirror refresh for the owner. Never blocks the
// caller; when the queue is full the request is dropped and the next edit
// will reschedule it.
func (w *SheetsSyncWorker) EnqueueSync(_ context.Context, ownerID string) {
	if ownerID == "" {
		return
	}
	if _, loaded := w.queued.LoadOrStore(ownerID, struct{}{}); loaded {
		return
	}

	select {
	case w.queue <- ownerID:
	default:
		w.queued.Delete(ownerID)
		w.logger.Warn().Str("owner_id", ownerID).Msg("Sync queue full, refresh dropped")
	}
}

// Start consumes the queue until ctx is done.
func (w *SheetsSyncWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Sheets sync worker started")
	defer w.logger.Info().Msg("Sheets sync worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case ownerID := <-w.queue:
			w.queued.Delete(ownerID)
			w.syncOwner(ctx, ownerID)
		}
	}
}

func (w *SheetsSyncWorker) syncOwner(ctx context.Context, ownerID string) {
	for attempt := 1; ; attempt++ {
		err := w.syncOnce(ctx, ownerID)
		if err == nil {
			metrics.IncSheetsSync("ok")
			w.logger.Debug().Str("owner_id", ownerID).Msg("Sheets mirror refreshed")
			return
		}

		if attempt >= w.retry.MaxRetries {
			metrics.IncSheetsSync("failed")
			w.logger.Error().Err(err).Str("owner_id", ownerID).Int("attempts", attempt).Msg("Sheets sync gave up")
			return
		}

		w.logger.Warn().Err(err).Str("owner_id", ownerID).Int("attempt", attempt).Msg("Sheets sync failed, will retry")
		if !w.retry.Wait(ctx, attempt) {
			return
		}
	}
}

func (w *SheetsSyncWorker) syncOnce(ctx context.Context, ownerID string) error {
	bookings, err := w.store.ListBookings(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := w.sheets.ReplaceBookingsSheet(ctx, bookings); err != nil {
		return err
	}

	campaigns, err := w.store.ListCampaigns(ctx, ownerID)
	if err != nil {
		return err
	}
	spent := make(map[string]int64)
	for _, b := range bookings {
		if b.CampaignName != "" {
			spent[b.CampaignName] += b.Cost
		}
	}
	return w.sheets.UpdateCampaignsSheet(ctx, campaigns, spent)
}
