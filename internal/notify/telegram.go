// Package notify pushes booking milestones to the agency's Telegram channel.
// Delivery is best-effort; a failed notification is logged and dropped.
package notify

import (
	"fmt"

	"kolbook/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}
}

// SubscribeTo wires the notifier into the event bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventComboCreated,
		events.EventBookingCompleted,
		events.EventBookingCancelled,
	} {
		bus.Subscribe(eventType, n.handle)
	}
}

func (n *TelegramNotifier) handle(event *events.Event) error {
	payload, err := events.DecodePayload(event)
	if err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to decode event payload")
		return err
	}

	text := formatMessage(event.Type, payload)
	if text == "" {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to send telegram notification")
		return err
	}
	return nil
}

func formatMessage(eventType string, p events.BookingEventPayload) string {
	switch eventType {
	case events.EventBookingCreated:
		return fmt.Sprintf("📝 New booking: %s — %s (%s)\nCost: %s VND",
			p.KOLName, p.Product, p.Campaign, formatAmount(p.Cost))
	case events.EventComboCreated:
		return fmt.Sprintf("📦 Combo deal: %s — %d bookings (%s)\nTotal: %s VND",
			p.KOLName, p.ComboSize, p.Campaign, formatAmount(p.Cost))
	case events.EventBookingCompleted:
		return fmt.Sprintf("✅ Booking completed: %s — %s (%s)",
			p.KOLName, p.Product, p.Campaign)
	case events.EventBookingCancelled:
		return fmt.Sprintf("❌ Booking cancelled: %s — %s (%s)",
			p.KOLName, p.Product, p.Campaign)
	default:
		return ""
	}
}

// formatAmount groups digits by thousands the way VND amounts are read.
func formatAmount(v int64) string {
	s := fmt.Sprintf("%d", v)
	if v < 0 {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if v < 0 {
		return "-" + string(out)
	}
	return string(out)
}
