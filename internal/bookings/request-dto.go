package bookings

type CreateBookingRequest struct {
	ShowID      string   `json:"show_id" binding:"required,uuid" validate:"required,uuid4"`
	BookedSeats []string `json:"booked_seats" binding:"required,min=1" validate:"required,min=1,dive,required,max=8"`
}
