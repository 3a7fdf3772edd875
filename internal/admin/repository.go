package admin

import (
	"github.com/Baro-rgb/CINEBOOK/internal/bookings"

	"gorm.io/gorm"
)

// Repository holds the aggregate queries behind the admin dashboard
type Repository interface {
	CountPaidBookings() (int64, error)
	SumPaidRevenue() (float64, error)
	CountDistinctCustomers() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountPaidBookings() (int64, error) {
	var count int64
	err := r.db.Model(&bookings.Booking{}).
		Where("status = ?", bookings.StatusPaid).
		Count(&count).Error
	return count, err
}

func (r *repository) SumPaidRevenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&bookings.Booking{}).
		Where("status = ?", bookings.StatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *repository) CountDistinctCustomers() (int64, error) {
	var count int64
	err := r.db.Model(&bookings.Booking{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
