package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventSeatsReleased    EventType = "booking.seats_released"
)

// BookingEvent is the message published for every booking lifecycle change
type BookingEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	BookingID  string    `json:"booking_id"`
	ShowID     string    `json:"show_id"`
	UserID     string    `json:"user_id"`
	Seats      []string  `json:"seats,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType EventType, bookingID, showID, userID string) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		ShowID:     showID,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps all events of one booking on the same partition so
// consumers observe them in order
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID
}
