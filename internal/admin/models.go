package admin

type DashboardResponse struct {
	PaidBookings   int64   `json:"paid_bookings"`
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveShows    int64   `json:"active_shows"`
	TotalCustomers int64   `json:"total_customers"`
}
