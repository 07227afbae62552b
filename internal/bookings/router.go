package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking confirmation routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/bookings")
	{
		group.GET("/confirm", controller.Confirm) // GET /api/v1/bookings/confirm?payment_ref=<ref>
	}
}
