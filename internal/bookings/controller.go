package bookings

import (
	"errors"
	"net/http"

	"quickshow/internal/shared/middleware"
	"quickshow/internal/shared/utils/response"
	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking godoc
// @Summary Book seats on a show
// @Description Holds the requested seats and returns a checkout link. Unpaid bookings are released after the hold window.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Show and seats to book"
// @Security BearerAuth
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /bookings [post]
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSeatsTaken):
			response.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, ErrShowNotFound):
			response.Error(c, http.StatusNotFound, "Show not found")
		default:
			logger.GetDefault().WithError(err).Error("failed to create booking")
			response.Error(c, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	response.OK(c, http.StatusCreated, "Booking created successfully", result)
}

// GetOccupiedSeats handles GET /api/v1/bookings/seats/:showId
func (ctrl *Controller) GetOccupiedSeats(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("showId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid show id")
		return
	}

	seats, err := ctrl.service.GetOccupiedSeats(c.Request.Context(), showID)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.Error(c, http.StatusNotFound, "Show not found")
			return
		}
		logger.GetDefault().WithError(err).Error("failed to fetch occupied seats")
		response.Error(c, http.StatusInternalServerError, "Failed to fetch occupied seats")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"occupiedSeats": seats})
}

// ListUserBookings handles GET /api/v1/users/bookings
func (ctrl *Controller) ListUserBookings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	result, err := ctrl.service.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		logger.GetDefault().WithError(err).Error("failed to list bookings", "user_id", userID)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"bookings": result})
}
