package admin

import (
	"errors"
	"net/http"

	"stagedoor/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Login exchanges the admin password for a session token
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.Login(ctx.Request.Context(), req, ctx.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(ctx, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", result)
}

// GetStats serves the dashboard aggregates
func (c *Controller) GetStats(ctx *gin.Context) {
	stats, err := c.service.GetStats(ctx.Request.Context())
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Stats retrieved successfully", stats)
}

// GetGuestList serves the door list for one show
func (c *Controller) GetGuestList(ctx *gin.Context) {
	showID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid show ID", nil)
		return
	}

	guests, err := c.service.GetGuestList(ctx.Request.Context(), showID)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Guest list retrieved successfully", guests)
}
