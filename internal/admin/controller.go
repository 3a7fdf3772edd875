package admin

import (
	"errors"
	"net/http"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetDashboard(c *gin.Context)
	GetAllBookings(c *gin.Context)
	DeleteBooking(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboard(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	all, err := ctrl.service.GetAllBookings(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", all, nil)
}

func (ctrl *controller) DeleteBooking(c *gin.Context) {
	bookingIDStr := c.Param("bookingId")
	bookingID, err := uuid.Parse(bookingIDStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, bookings.ErrBookingNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking deleted successfully", nil, nil)
}
