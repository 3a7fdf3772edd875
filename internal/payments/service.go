package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/google/uuid"
)

// SeatReleaser is the slice of the shows service the settlement path needs
type SeatReleaser interface {
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
}

// EventPublisher pushes settlement outcomes to the notification pipeline
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, bookingID, showID, userID string, amount float64) error
	PublishSeatsReleased(ctx context.Context, bookingID, showID, userID string, seats []string) error
}

type Service interface {
	SetEventPublisher(publisher EventPublisher)

	// ConfirmPayment settles a booking as paid. A booking that is already
	// settled, or no longer exists, makes the call a logged no-op.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID, sessionID string) error

	// HandleTimeout runs at the hold deadline: a booking still unpaid is
	// removed and its seats go back on sale. Safe to run any number of
	// times and in any order relative to ConfirmPayment.
	HandleTimeout(ctx context.Context, bookingID uuid.UUID) error
}

type service struct {
	bookingRepo  bookings.Repository
	seatReleaser SeatReleaser
	publisher    EventPublisher
	log          *logger.Logger
}

func NewService(bookingRepo bookings.Repository, seatReleaser SeatReleaser, log *logger.Logger) Service {
	return &service{
		bookingRepo:  bookingRepo,
		seatReleaser: seatReleaser,
		log:          log,
	}
}

// SetEventPublisher injects the notification publisher dependency
func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, sessionID string) error {
	settled, err := s.bookingRepo.MarkPaidIfPending(bookingID)
	if err != nil {
		return fmt.Errorf("failed to settle booking %s: %w", bookingID, err)
	}

	if !settled {
		// Timeout got there first, or a duplicate delivery. Nothing to do.
		s.log.InfoWithContext(ctx, "Stale payment confirmation ignored", map[string]interface{}{
			"booking_id": bookingID.String(),
			"session_id": sessionID,
		})
		return nil
	}

	s.log.LogBookingPaid(ctx, bookingID.String(), sessionID)

	if s.publisher != nil {
		booking, err := s.bookingRepo.GetByID(bookingID)
		if err == nil {
			if pubErr := s.publisher.PublishBookingConfirmed(ctx, booking.ID.String(), booking.ShowID.String(), booking.UserID, booking.Amount); pubErr != nil {
				s.log.WithError(pubErr).WarnContext(ctx, "failed to publish booking confirmed event")
			}
		}
	}

	return nil
}

func (s *service) HandleTimeout(ctx context.Context, bookingID uuid.UUID) error {
	// Claim the expiry first. Once the row reads EXPIRED a late webhook
	// can no longer flip it to PAID.
	if _, err := s.bookingRepo.ClaimExpiredIfPending(bookingID); err != nil {
		return fmt.Errorf("failed to claim expiry for booking %s: %w", bookingID, err)
	}

	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			// Already cleaned up by an earlier run or an admin delete
			return nil
		}
		return fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	if booking.Status != bookings.StatusExpired {
		// The webhook won the race; the booking stays
		s.log.InfoWithContext(ctx, "Settlement check found booking paid", map[string]interface{}{
			"booking_id": bookingID.String(),
		})
		return nil
	}

	// The EXPIRED claim also covers re-runs: a crash between release and
	// delete leaves the row claimed, and the task retry finishes the job.
	if err := s.seatReleaser.ReleaseSeats(ctx, booking.ShowID, booking.BookedSeats, booking.UserID); err != nil {
		if !errors.Is(err, shows.ErrShowNotFound) {
			return fmt.Errorf("failed to release seats for booking %s: %w", bookingID, err)
		}
		// A removed show has no seats left to free
	}

	if err := s.bookingRepo.Delete(bookingID); err != nil {
		return fmt.Errorf("failed to delete expired booking %s: %w", bookingID, err)
	}

	s.log.LogBookingExpired(ctx, bookingID.String(), booking.ShowID.String())
	s.log.LogSeatsReleased(ctx, booking.ShowID.String(), booking.BookedSeats)

	if s.publisher != nil {
		if pubErr := s.publisher.PublishSeatsReleased(ctx, booking.ID.String(), booking.ShowID.String(), booking.UserID, booking.BookedSeats); pubErr != nil {
			s.log.WithError(pubErr).WarnContext(ctx, "failed to publish seats released event")
		}
	}

	return nil
}
