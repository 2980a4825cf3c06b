package service

import (
	"context"
	"fmt"
	"time"

	"kolbook/internal/allocation"
	"kolbook/internal/domain"
	"kolbook/internal/events"
	"kolbook/internal/models"
	"kolbook/internal/stats"

	"github.com/rs/zerolog"
)

type BookingService struct {
	store      domain.Store
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:      store,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *BookingService) ListBookings(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	return s.store.ListBookings(ctx, ownerID)
}

func (s *BookingService) GetBooking(ctx context.Context, ownerID, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, ownerID, id)
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := validateBooking(booking); err != nil {
		return err
	}
	if booking.CreatedAt == 0 {
		booking.CreatedAt = s.now().UnixMilli()
	}
	// Производные метрики всегда пересчитываются перед записью
	booking.Performance = stats.Recompute(booking.Performance, booking.Cost)

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingCreated, booking, "")
	s.enqueueSync(ctx, booking.OwnerID)
	return nil
}

// UpdateBooking replaces the stored record with the full incoming one.
// Derived metrics are recomputed from the new field set, so stale CPV/CPE
// never survive an edit.
func (s *BookingService) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	if err := validateBooking(booking); err != nil {
		return err
	}

	prev, err := s.store.GetBooking(ctx, booking.OwnerID, booking.ID)
	if err != nil {
		return err
	}
	if booking.CreatedAt == 0 {
		booking.CreatedAt = prev.CreatedAt
	}
	booking.Performance = stats.Recompute(booking.Performance, booking.Cost)

	if err := s.store.ReplaceBooking(ctx, booking); err != nil {
		return err
	}

	if prev.Status != booking.Status {
		s.publishEvent(events.EventBookingStatusChanged, booking, prev.Status)
		switch booking.Status {
		case models.StatusCompleted:
			s.publishEvent(events.EventBookingCompleted, booking, prev.Status)
		case models.StatusCancelled:
			s.publishEvent(events.EventBookingCancelled, booking, prev.Status)
		}
	}
	s.enqueueSync(ctx, booking.OwnerID)
	return nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteBooking(ctx, ownerID, id); err != nil {
		return err
	}
	s.enqueueSync(ctx, ownerID)
	return nil
}

// CreateCombo expands a combo draft into one booking per item and persists
// them sequentially. On the first write failure the already written siblings
// are deleted, so the batch lands all-or-nothing.
func (s *BookingService) CreateCombo(ctx context.Context, ownerID string, draft allocation.Draft, items []allocation.Item, totalCost, totalDeposit int64) ([]*models.Booking, error) {
	bookings, err := allocation.BuildCombo(draft, items, totalCost, totalDeposit, s.now())
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		b.OwnerID = ownerID
		b.Performance = stats.Recompute(b.Performance, b.Cost)
	}

	written := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if err := s.store.CreateBooking(ctx, b); err != nil {
			s.rollbackCombo(ctx, ownerID, written)
			return nil, fmt.Errorf("combo write failed after %d of %d bookings: %w", len(written), len(bookings), err)
		}
		written = append(written, b)
	}

	s.publishCombo(bookings)
	s.enqueueSync(ctx, ownerID)
	return bookings, nil
}

func (s *BookingService) rollbackCombo(ctx context.Context, ownerID string, written []*models.Booking) {
	for _, b := range written {
		if err := s.store.DeleteBooking(ctx, ownerID, b.ID); err != nil {
			// Осиротевшая запись, удаляется вручную
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("Combo rollback failed to delete booking")
		}
	}
}

// BudgetContext computes the campaign budget picture for a booking form.
// excludeID is the booking being edited, empty for a new one.
func (s *BookingService) BudgetContext(ctx context.Context, ownerID, campaignName, excludeID string, draftCost int64) (*stats.BudgetContext, error) {
	campaign, err := s.store.GetCampaignByName(ctx, ownerID, campaignName)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.ListBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	bc := stats.CampaignBudget(campaign, bookings, excludeID, draftCost)
	return &bc, nil
}

func validateBooking(booking *models.Booking) error {
	if booking.KOL.Name == "" {
		return fmt.Errorf("kol name is required")
	}
	if booking.Cost < 0 || booking.Deposit < 0 {
		return fmt.Errorf("cost and deposit must be non-negative")
	}
	if booking.Status == "" {
		booking.Status = models.StatusContacted
	}
	if !models.ValidStatus(booking.Status) {
		return fmt.Errorf("unknown status %q", booking.Status)
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentUnpaid
	}
	if !models.ValidPaymentStatus(booking.PaymentStatus) {
		return fmt.Errorf("unknown payment status %q", booking.PaymentStatus)
	}
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, prevStatus string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		OwnerID:    booking.OwnerID,
		KOLName:    booking.KOL.Name,
		Campaign:   booking.CampaignName,
		Product:    booking.ProductName,
		Status:     booking.Status,
		PrevStatus: prevStatus,
		Cost:       booking.Cost,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) publishCombo(bookings []*models.Booking) {
	if s.eventBus == nil || len(bookings) == 0 {
		return
	}

	first := bookings[0]
	payload := events.BookingEventPayload{
		BookingID: first.ID,
		OwnerID:   first.OwnerID,
		KOLName:   first.KOL.Name,
		Campaign:  first.CampaignName,
		Status:    first.Status,
		Cost:      comboTotal(bookings),
		ComboSize: len(bookings),
	}

	if err := s.eventBus.PublishJSON(events.EventComboCreated, payload); err != nil {
		s.logger.Error().Err(err).Str("booking_id", first.ID).Msg("publish combo event error")
	}
}

func comboTotal(bookings []*models.Booking) int64 {
	var total int64
	for _, b := range bookings {
		total += b.Cost
	}
	return total
}

func (s *BookingService) enqueueSync(ctx context.Context, ownerID string) {
	if s.syncWorker == nil {
		return
	}
	s.syncWorker.EnqueueSync(ctx, ownerID)
}
