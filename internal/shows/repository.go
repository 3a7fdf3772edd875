package shows

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowNotFound = errors.New("show not found")
	ErrSeatsTaken   = errors.New("one or more seats are already occupied")
)

type Repository interface {
	CreateMovie(movie *Movie) error
	CreateShow(show *Show) error
	GetByID(id uuid.UUID) (*Show, error)
	GetWithMovie(id uuid.UUID) (*Show, error)
	GetUpcoming() ([]Show, error)
	GetOccupiedSeats(id uuid.UUID) (SeatMap, error)
	ReserveSeats(showID uuid.UUID, seats []string, userID string) error
	ReleaseSeats(showID uuid.UUID, seats []string, userID string) error
	CountUpcoming() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMovie(movie *Movie) error {
	return r.db.Create(movie).Error
}

func (r *repository) CreateShow(show *Show) error {
	if show.OccupiedSeats == nil {
		show.OccupiedSeats = SeatMap{}
	}
	return r.db.Create(show).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetWithMovie(id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.Preload("Movie").Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetUpcoming() ([]Show, error) {
	var shows []Show
	err := r.db.Preload("Movie").
		Where("show_date_time > ?", time.Now()).
		Order("show_date_time ASC").
		Find(&shows).Error
	return shows, err
}

func (r *repository) GetOccupiedSeats(id uuid.UUID) (SeatMap, error) {
	show, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	return show.OccupiedSeats, nil
}

// ReserveSeats claims the given seats for userID in one conditional update.
// The WHERE clause refuses the write when any requested seat already exists
// in the occupancy map, so two overlapping reservations can never both
// succeed no matter how they interleave.
func (r *repository) ReserveSeats(showID uuid.UUID, seats []string, userID string) error {
	patch := make(SeatMap, len(seats))
	for _, seat := range seats {
		patch[seat] = userID
	}

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal seat patch: %w", err)
	}

	placeholders := make([]string, len(seats))
	seatArgs := make([]interface{}, len(seats))
	for i, seat := range seats {
		placeholders[i] = "?"
		seatArgs[i] = seat
	}

	query := fmt.Sprintf(`
		UPDATE shows
		SET occupied_seats = occupied_seats || ?::jsonb, updated_at = NOW()
		WHERE id = ? AND NOT jsonb_exists_any(occupied_seats, ARRAY[%s]::text[])`,
		strings.Join(placeholders, ","))

	args := append([]interface{}{string(patchJSON), showID}, seatArgs...)

	result := r.db.Exec(query, args...)
	if result.Error != nil {
		return fmt.Errorf("failed to reserve seats: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Zero rows means either the show does not exist or another
		// reservation got the seats first. Disambiguate with a lookup.
		var count int64
		if err := r.db.Model(&Show{}).Where("id = ?", showID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check show existence: %w", err)
		}
		if count == 0 {
			return ErrShowNotFound
		}
		return ErrSeatsTaken
	}

	return nil
}

// ReleaseSeats removes the given seats from the occupancy map, but only the
// entries actually held by userID. Seats meanwhile claimed by someone else
// are left untouched.
func (r *repository) ReleaseSeats(showID uuid.UUID, seats []string, userID string) error {
	if len(seats) == 0 {
		return nil
	}

	placeholders := make([]string, len(seats))
	seatArgs := make([]interface{}, len(seats))
	for i, seat := range seats {
		placeholders[i] = "?"
		seatArgs[i] = seat
	}

	query := fmt.Sprintf(`
		UPDATE shows
		SET occupied_seats = (
			SELECT COALESCE(jsonb_object_agg(key, value), '{}'::jsonb)
			FROM jsonb_each(occupied_seats)
			WHERE NOT (key = ANY(ARRAY[%s]::text[]) AND value = to_jsonb(?::text))
		), updated_at = NOW()
		WHERE id = ?`,
		strings.Join(placeholders, ","))

	args := append(seatArgs, userID, showID)

	result := r.db.Exec(query, args...)
	if result.Error != nil {
		return fmt.Errorf("failed to release seats: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrShowNotFound
	}

	return nil
}

func (r *repository) CountUpcoming() (int64, error) {
	var count int64
	err := r.db.Model(&Show{}).Where("show_date_time > ?", time.Now()).Count(&count).Error
	return count, err
}
