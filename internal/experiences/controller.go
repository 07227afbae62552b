package experiences

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

// ListCatalog handles GET /api/v1/experiences
func (c *Controller) ListCatalog(ctx *gin.Context) {
	catalog, err := c.service.ListCatalog(ctx.Request.Context())
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Catalog retrieved successfully", gin.H{
		"experiences": catalog,
	})
}

// GetBySlug handles GET /api/v1/experiences/:slug
func (c *Controller) GetBySlug(ctx *gin.Context) {
	experience, err := c.service.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Experience retrieved successfully", experience.ToResponse())
}
