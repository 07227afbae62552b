package shows

import (
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowRoutes configures the show listing and admin scheduling routes
func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	group := rg.Group("/shows")
	{
		group.GET("", controller.ListUpcoming) // GET /api/v1/shows?experience=<slug>

		// Scheduling a show is an administrative operation
		group.POST("", middleware.AdminAuth(cfg), controller.CreateShow) // POST /api/v1/shows
	}
}
