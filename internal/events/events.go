package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingCompleted     = "booking_completed"
	EventBookingCancelled     = "booking_cancelled"
	EventComboCreated         = "combo_created"
)

// BookingEventPayload describes the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID  string `json:"booking_id"`
	OwnerID    string `json:"owner_id"`
	KOLName    string `json:"kol_name"`
	Campaign   string `json:"campaign"`
	Product    string `json:"product"`
	Status     string `json:"status"`
	PrevStatus string `json:"prev_status,omitempty"`
	Cost       int64  `json:"cost"`
	ComboSize  int    `json:"combo_size,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// DecodePayload unmarshals the event payload into a booking snapshot.
func DecodePayload(event *Event) (BookingEventPayload, error) {
	var payload BookingEventPayload
	err := json.Unmarshal(event.Payload, &payload)
	return payload, err
}
