package admin

import (
	"github.com/Baro-rgb/CINEBOOK/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(router *gin.RouterGroup, controller Controller) {
	// Admin routes - back-office reconciliation, admins only
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.GET("/dashboard", controller.GetDashboard)           // GET /api/v1/admin/dashboard - Sales overview
		adminRoutes.GET("/bookings", controller.GetAllBookings)          // GET /api/v1/admin/bookings - All bookings, newest first
		adminRoutes.DELETE("/bookings/:bookingId", controller.DeleteBooking) // DELETE /api/v1/admin/bookings/:bookingId - Cancel with seat release
	}
}
