package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/config"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrNoSeats       = errors.New("at least one seat must be selected")
	ErrTooManySeats  = errors.New("seat count exceeds the per-booking limit")
	ErrDuplicateSeat = errors.New("duplicate seats in request")
)

// ShowService is the slice of the shows service the booking flow needs
type ShowService interface {
	GetShowForBooking(showID uuid.UUID) (*shows.Show, error)
	ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
}

// CheckoutParams describes the hosted checkout session to create
type CheckoutParams struct {
	BookingID   string
	ProductName string
	Amount      float64
	Quantity    int
	ExpiresAt   time.Time
}

// CheckoutSession is the provider's created session
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutGateway creates hosted checkout sessions with the payment provider
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// SettlementScheduler defers the unpaid-booking check to the hold deadline
type SettlementScheduler interface {
	ScheduleSettlementCheck(bookingID uuid.UUID, delay time.Duration) error
}

// EventPublisher pushes booking lifecycle events to the notification pipeline
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, bookingID, showID, userID string, seats []string, amount float64) error
}

type Service interface {
	SetEventPublisher(publisher EventPublisher)

	// Reserve runs the whole reservation flow: validate, atomically claim
	// the seats, record the booking, open a checkout session, and schedule
	// the settlement check. Any failure after the seats were claimed rolls
	// the claim back before returning.
	Reserve(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error)

	GetUserBookings(ctx context.Context, userID string) ([]BookingResponse, error)
}

type service struct {
	repo        Repository
	showService ShowService
	gateway     CheckoutGateway
	scheduler   SettlementScheduler
	publisher   EventPublisher
	cfg         *config.BookingConfig
	log         *logger.Logger
	validate    *validator.Validate
}

func NewService(repo Repository, showService ShowService, gateway CheckoutGateway, scheduler SettlementScheduler, cfg *config.BookingConfig, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		showService: showService,
		gateway:     gateway,
		scheduler:   scheduler,
		cfg:         cfg,
		log:         log,
		validate:    validator.New(),
	}
}

// SetEventPublisher injects the notification publisher dependency
func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

func (s *service) Reserve(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := s.validateSeats(req.BookedSeats); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid booking request: %w", err)
	}

	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, shows.ErrShowNotFound
	}

	show, err := s.showService.GetShowForBooking(showID)
	if err != nil {
		return nil, err
	}

	// Atomic claim. Loses cleanly against any concurrent reservation that
	// overlaps on seats; there is no check-then-act window.
	if err := s.showService.ReserveSeats(ctx, showID, req.BookedSeats, userID); err != nil {
		return nil, err
	}

	amount := show.ShowPrice * float64(len(req.BookedSeats))

	booking := &Booking{
		ID:          uuid.New(),
		UserID:      userID,
		ShowID:      showID,
		BookedSeats: SeatList(req.BookedSeats),
		Amount:      amount,
		Status:      StatusPending,
	}

	if err := s.repo.Create(booking); err != nil {
		s.rollbackSeats(ctx, showID, req.BookedSeats, userID)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		BookingID:   booking.ID.String(),
		ProductName: show.Movie.Title,
		Amount:      amount,
		Quantity:    len(req.BookedSeats),
		ExpiresAt:   time.Now().Add(s.cfg.HoldDuration),
	})
	if err != nil {
		// Without a session the user has no way to pay, so the hold must
		// not outlive this request.
		s.rollback(ctx, booking)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.repo.SetPaymentSession(booking.ID, session.ID, session.URL); err != nil {
		s.rollback(ctx, booking)
		return nil, fmt.Errorf("failed to persist payment session: %w", err)
	}

	if err := s.scheduler.ScheduleSettlementCheck(booking.ID, s.cfg.HoldDuration); err != nil {
		// An unscheduled check would leave an unpaid booking holding its
		// seats forever, so scheduling failure also unwinds the claim.
		s.rollback(ctx, booking)
		return nil, fmt.Errorf("failed to schedule settlement check: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), showID.String(), userID)

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(ctx, booking.ID.String(), showID.String(), userID, req.BookedSeats, amount); err != nil {
			s.log.WithError(err).WarnContext(ctx, "failed to publish booking created event")
		}
	}

	return &CreateBookingResponse{
		BookingID:  booking.ID.String(),
		Status:     booking.Status.String(),
		Amount:     amount,
		TotalSeats: len(req.BookedSeats),
		PaymentURL: session.URL,
	}, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID string) ([]BookingResponse, error) {
	bookings, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	responses := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}
	return responses, nil
}

func (s *service) validateSeats(seats []string) error {
	if len(seats) == 0 {
		return ErrNoSeats
	}
	if len(seats) > s.cfg.MaxSeats {
		return ErrTooManySeats
	}

	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if _, dup := seen[seat]; dup {
			return ErrDuplicateSeat
		}
		seen[seat] = struct{}{}
	}
	return nil
}

// rollback unwinds a partially created reservation: seats first, then the
// booking row. Both steps are holder-checked or idempotent, so a crash
// between them leaves nothing a retried settlement check cannot clean up.
func (s *service) rollback(ctx context.Context, booking *Booking) {
	s.rollbackSeats(ctx, booking.ShowID, booking.BookedSeats, booking.UserID)
	if err := s.repo.Delete(booking.ID); err != nil {
		s.log.WithError(err).ErrorContext(ctx, "rollback: failed to delete booking",
			"booking_id", booking.ID.String())
	}
}

func (s *service) rollbackSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) {
	if err := s.showService.ReleaseSeats(ctx, showID, seats, userID); err != nil {
		s.log.WithError(err).ErrorContext(ctx, "rollback: failed to release seats",
			"show_id", showID.String())
	}
}
