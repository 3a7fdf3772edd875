package shows

import (
	"github.com/gin-gonic/gin"
)

func SetupShowRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse shows and seat layouts
	publicShows := router.Group("/shows")
	{
		publicShows.GET("", controller.GetUpcomingShows)            // GET /api/v1/shows - Browse upcoming shows
		publicShows.GET("/:showId/seats", controller.GetOccupiedSeats) // GET /api/v1/shows/:showId/seats - Occupied seat labels
	}
}
