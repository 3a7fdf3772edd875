package bookings

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	Create(booking *Booking) error
	GetByID(id uuid.UUID) (*Booking, error)
	GetWithShow(id uuid.UUID) (*Booking, error)
	GetByUser(userID string) ([]Booking, error)
	GetAll() ([]Booking, error)
	SetPaymentSession(id uuid.UUID, sessionID, paymentLink string) error
	MarkPaidIfPending(id uuid.UUID) (bool, error)
	ClaimExpiredIfPending(id uuid.UUID) (bool, error)
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(booking *Booking) error {
	return r.db.Create(booking).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetWithShow(id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.Preload("Show").Preload("Show.Movie").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUser(userID string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.Preload("Show").Preload("Show.Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) GetAll() ([]Booking, error) {
	var bookings []Booking
	err := r.db.Preload("Show").Preload("Show.Movie").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) SetPaymentSession(id uuid.UUID, sessionID, paymentLink string) error {
	result := r.db.Model(&Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"session_id":   sessionID,
		"payment_link": paymentLink,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// MarkPaidIfPending flips PENDING to PAID in one compare-and-swap. Returns
// false when the booking was already settled (or removed), which callers
// treat as a stale trigger.
func (r *repository) MarkPaidIfPending(id uuid.UUID) (bool, error) {
	result := r.db.Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusPaid)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClaimExpiredIfPending flips PENDING to EXPIRED in one compare-and-swap.
// The claim serializes the timeout path against a concurrent webhook: only
// one of the two transitions can win.
func (r *repository) ClaimExpiredIfPending(id uuid.UUID) (bool, error) {
	result := r.db.Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusExpired)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Booking{}).Error
}
