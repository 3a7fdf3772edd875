package shows

import (
	"context"
	"sort"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/constants"
	"github.com/Baro-rgb/CINEBOOK/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetUpcomingShows(ctx context.Context) ([]ShowResponse, error)
	GetOccupiedSeats(ctx context.Context, showID uuid.UUID) (*OccupiedSeatsResponse, error)

	// CheckAvailability reports whether every requested seat is currently
	// free. A snapshot read only; the reservation itself re-checks
	// atomically at write time.
	CheckAvailability(showID uuid.UUID, seats []string) (bool, error)

	GetShowForBooking(showID uuid.UUID) (*Show, error)
	ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error

	CountActiveShows() (int64, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetUpcomingShows(ctx context.Context) ([]ShowResponse, error) {
	if s.cacheService != nil {
		var cached []ShowResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_SHOWS_UPCOMING, &cached); err == nil {
			return cached, nil
		}
	}

	shows, err := s.repo.GetUpcoming()
	if err != nil {
		return nil, err
	}

	responses := make([]ShowResponse, len(shows))
	for i, show := range shows {
		responses[i] = show.ToResponse()
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, constants.CACHE_KEY_SHOWS_UPCOMING, responses, constants.TTL_SHOW_LIST)
	}

	return responses, nil
}

func (s *service) GetOccupiedSeats(ctx context.Context, showID uuid.UUID) (*OccupiedSeatsResponse, error) {
	key := constants.BuildOccupiedSeatsKey(showID.String())

	if s.cacheService != nil {
		var cached OccupiedSeatsResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	seatMap, err := s.repo.GetOccupiedSeats(showID)
	if err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(seatMap))
	for seat := range seatMap {
		seats = append(seats, seat)
	}
	sort.Strings(seats)

	resp := &OccupiedSeatsResponse{
		ShowID:        showID.String(),
		OccupiedSeats: seats,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, key, resp, constants.TTL_OCCUPIED_SEATS)
	}

	return resp, nil
}

func (s *service) CheckAvailability(showID uuid.UUID, seats []string) (bool, error) {
	seatMap, err := s.repo.GetOccupiedSeats(showID)
	if err != nil {
		return false, err
	}

	for _, seat := range seats {
		if _, taken := seatMap[seat]; taken {
			return false, nil
		}
	}
	return true, nil
}

func (s *service) GetShowForBooking(showID uuid.UUID) (*Show, error) {
	return s.repo.GetWithMovie(showID)
}

func (s *service) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	if err := s.repo.ReserveSeats(showID, seats, userID); err != nil {
		return err
	}
	s.invalidateOccupancyCache(ctx, showID)
	return nil
}

func (s *service) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	if err := s.repo.ReleaseSeats(showID, seats, userID); err != nil {
		return err
	}
	s.invalidateOccupancyCache(ctx, showID)
	return nil
}

func (s *service) CountActiveShows() (int64, error) {
	return s.repo.CountUpcoming()
}

// invalidateOccupancyCache drops the cached seat view after a mutation.
// The entry also carries a short TTL, so a failed invalidation self-heals
// within seconds.
func (s *service) invalidateOccupancyCache(ctx context.Context, showID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.BuildOccupiedSeatsKey(showID.String()))
}
