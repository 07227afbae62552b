package bookings

import (
	"net/http"

	"stagedoor/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Confirm serves the post-checkout confirmation lookup
func (c *Controller) Confirm(ctx *gin.Context) {
	paymentRef := ctx.Query("payment_ref")
	if paymentRef == "" {
		response.Error(ctx, http.StatusBadRequest, "payment_ref is required", nil)
		return
	}

	result, err := c.service.ConfirmLookup(ctx.Request.Context(), paymentRef)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", result)
}
