package experiences

import (
	"github.com/gin-gonic/gin"
)

// SetupExperienceRoutes configures the public catalog routes
func SetupExperienceRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/experiences")
	{
		group.GET("", controller.ListCatalog)       // GET /api/v1/experiences
		group.GET("/:slug", controller.GetBySlug)   // GET /api/v1/experiences/:slug
	}
}
