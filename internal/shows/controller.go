package shows

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

// ListUpcoming handles GET /api/v1/shows?experience=<slug>
func (c *Controller) ListUpcoming(ctx *gin.Context) {
	var query ListShowsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	listing, err := c.service.ListUpcoming(ctx.Request.Context(), query)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Shows retrieved successfully", listing)
}

// CreateShow handles POST /api/v1/shows (admin)
func (c *Controller) CreateShow(ctx *gin.Context) {
	var req CreateShowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	show, err := c.service.CreateShow(ctx.Request.Context(), req)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Show created successfully", show)
}
