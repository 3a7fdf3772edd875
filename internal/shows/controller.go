package shows

import (
	"errors"
	"net/http"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetUpcomingShows(c *gin.Context)
	GetOccupiedSeats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetUpcomingShows(c *gin.Context) {
	shows, err := ctrl.service.GetUpcomingShows(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Shows retrieved successfully", shows, nil)
}

func (ctrl *controller) GetOccupiedSeats(c *gin.Context) {
	showIDStr := c.Param("showId")
	showID, err := uuid.Parse(showIDStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid show ID", nil, err.Error())
		return
	}

	seats, err := ctrl.service.GetOccupiedSeats(c.Request.Context(), showID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrShowNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Occupied seats retrieved successfully", seats, nil)
}
