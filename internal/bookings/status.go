package bookings

type Status string

const (
	// StatusPending means the seats are held and payment has not settled yet
	StatusPending Status = "PENDING"
	// StatusPaid means the payment provider confirmed the checkout session
	StatusPaid Status = "PAID"
	// StatusExpired is a transient claim taken by the timeout path right
	// before the booking row is removed and its seats released
	StatusExpired Status = "EXPIRED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsSettled reports whether the booking has reached a terminal state
func (s Status) IsSettled() bool {
	return s != StatusPending
}
