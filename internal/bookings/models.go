package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/shows"

	"github.com/google/uuid"
)

// SeatList stores a booking's seat labels, in request order, as JSONB
type SeatList []string

// Value implements driver.Valuer for JSONB storage
func (l SeatList) Value() (driver.Value, error) {
	if l == nil {
		l = SeatList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval
func (l *SeatList) Scan(value interface{}) error {
	if value == nil {
		*l = SeatList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported seat list type %T", value)
	}

	return json.Unmarshal(data, l)
}

// Booking defines the main booking structure. Amount is fixed at creation
// (show price times seat count) and never recomputed afterwards.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(64);index;not null" json:"user_id"`
	ShowID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"show_id"`
	Show        shows.Show `gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE" json:"show,omitempty"`
	BookedSeats SeatList   `gorm:"type:jsonb;not null" json:"booked_seats"`
	Amount      float64    `gorm:"not null" json:"amount"`
	Status      Status     `gorm:"type:varchar(20);check:status IN ('PENDING', 'PAID', 'EXPIRED');default:'PENDING'" json:"status"`
	PaymentLink string     `gorm:"size:500" json:"payment_link"`
	SessionID   string     `gorm:"size:255;index" json:"session_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Helper methods for booking management
func (b *Booking) IsPaid() bool {
	return b.Status == StatusPaid
}

func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}
