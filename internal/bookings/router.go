package bookings

import (
	"github.com/Baro-rgb/CINEBOOK/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	// All booking routes require an authenticated user
	userBookings := router.Group("/bookings")
	userBookings.Use(middleware.JWTAuth())
	{
		userBookings.POST("", controller.CreateBooking) // POST /api/v1/bookings - Reserve seats and get payment URL
		userBookings.GET("/me", controller.GetMyBookings) // GET /api/v1/bookings/me - Current user's bookings
	}
}
