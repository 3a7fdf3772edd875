package bookings

import (
	"errors"
	"net/http"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/middleware"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/utils/response"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.Reserve(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondJSON(c, "error", bookingErrorStatus(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func bookingErrorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNoSeats), errors.Is(err, ErrTooManySeats), errors.Is(err, ErrDuplicateSeat):
		return http.StatusBadRequest
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, shows.ErrShowNotFound):
		return http.StatusNotFound
	case errors.Is(err, shows.ErrSeatsTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
