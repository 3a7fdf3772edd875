package notifications

import (
	"context"
	"fmt"
)

// Service is the high-level publisher the booking and settlement flows use.
// Its methods satisfy the publisher interfaces those packages declare.
type Service struct {
	producer Producer
}

func NewService(producer Producer) *Service {
	return &Service{producer: producer}
}

func (s *Service) PublishBookingCreated(ctx context.Context, bookingID, showID, userID string, seats []string, amount float64) error {
	event := NewBookingEvent(EventBookingCreated, bookingID, showID, userID)
	event.Seats = seats
	event.Amount = amount
	return s.publish(ctx, event)
}

func (s *Service) PublishBookingConfirmed(ctx context.Context, bookingID, showID, userID string, amount float64) error {
	event := NewBookingEvent(EventBookingConfirmed, bookingID, showID, userID)
	event.Amount = amount
	return s.publish(ctx, event)
}

func (s *Service) PublishSeatsReleased(ctx context.Context, bookingID, showID, userID string, seats []string) error {
	event := NewBookingEvent(EventSeatsReleased, bookingID, showID, userID)
	event.Seats = seats
	return s.publish(ctx, event)
}

func (s *Service) publish(ctx context.Context, event *BookingEvent) error {
	if s.producer == nil {
		return fmt.Errorf("event producer is not configured")
	}
	return s.producer.Publish(ctx, event)
}

// Close shuts down the underlying producer
func (s *Service) Close() error {
	if s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
