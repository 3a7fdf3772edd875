package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/constants"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/cache"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/google/uuid"
)

// ShowService is the slice of the shows service the admin paths need
type ShowService interface {
	CountActiveShows() (int64, error)
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetDashboard(ctx context.Context) (*DashboardResponse, error)
	GetAllBookings(ctx context.Context) ([]bookings.BookingResponse, error)

	// DeleteBooking cancels a booking from the back office. Its seats are
	// released through the same holder-checked routine the timeout path
	// uses, so seats meanwhile resold stay with their new holder.
	DeleteBooking(ctx context.Context, bookingID uuid.UUID) error
}

type service struct {
	repo         Repository
	bookingRepo  bookings.Repository
	showService  ShowService
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, bookingRepo bookings.Repository, showService ShowService, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		showService: showService,
		log:         log,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	if s.cacheService != nil {
		var cached DashboardResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD, &cached); err == nil {
			return &cached, nil
		}
	}

	paidBookings, err := s.repo.CountPaidBookings()
	if err != nil {
		return nil, fmt.Errorf("failed to count paid bookings: %w", err)
	}

	revenue, err := s.repo.SumPaidRevenue()
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	activeShows, err := s.showService.CountActiveShows()
	if err != nil {
		return nil, fmt.Errorf("failed to count active shows: %w", err)
	}

	customers, err := s.repo.CountDistinctCustomers()
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	dashboard := &DashboardResponse{
		PaidBookings:   paidBookings,
		TotalRevenue:   revenue,
		ActiveShows:    activeShows,
		TotalCustomers: customers,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD, dashboard, constants.TTL_ADMIN_DASHBOARD)
	}

	return dashboard, nil
}

func (s *service) GetAllBookings(ctx context.Context) ([]bookings.BookingResponse, error) {
	all, err := s.bookingRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	responses := make([]bookings.BookingResponse, len(all))
	for i, booking := range all {
		responses[i] = booking.ToResponse()
	}
	return responses, nil
}

func (s *service) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}

	if err := s.showService.ReleaseSeats(ctx, booking.ShowID, booking.BookedSeats, booking.UserID); err != nil {
		if !errors.Is(err, shows.ErrShowNotFound) {
			return fmt.Errorf("failed to release seats: %w", err)
		}
	}

	if err := s.bookingRepo.Delete(bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.log.LogSeatsReleased(ctx, booking.ShowID.String(), booking.BookedSeats)

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD)
	}

	return nil
}
