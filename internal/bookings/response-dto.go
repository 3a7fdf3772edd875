package bookings

import "time"

type CreateBookingResponse struct {
	BookingID  string  `json:"booking_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	TotalSeats int     `json:"total_seats"`
	PaymentURL string  `json:"payment_url"`
}

type BookingResponse struct {
	ID           string    `json:"id"`
	ShowID       string    `json:"show_id"`
	MovieTitle   string    `json:"movie_title"`
	ShowDateTime time.Time `json:"show_date_time"`
	BookedSeats  []string  `json:"booked_seats"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	PaymentLink  string    `json:"payment_link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:           b.ID.String(),
		ShowID:       b.ShowID.String(),
		MovieTitle:   b.Show.Movie.Title,
		ShowDateTime: b.Show.ShowDateTime,
		BookedSeats:  b.BookedSeats,
		Amount:       b.Amount,
		Status:       b.Status.String(),
		PaymentLink:  b.PaymentLink,
		CreatedAt:    b.CreatedAt,
	}
}
