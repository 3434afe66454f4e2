package bookings

import (
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking routes.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookingsGroup := rg.Group("/bookings")
	{
		// Public live occupancy read, used by the seat picker
		bookingsGroup.GET("/seats/:showId", controller.GetOccupiedSeats)

		bookingsGroup.POST("", middleware.Auth(cfg), controller.CreateBooking)
	}

	// The frontend reads a user's bookings off the user resource.
	rg.GET("/users/bookings", middleware.Auth(cfg), controller.ListUserBookings)
}
