package admin

import (
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes configures the admin login and dashboard routes
func SetupAdminRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	group := rg.Group("/admin")
	{
		group.POST("/login", controller.Login) // POST /api/v1/admin/login

		protected := group.Group("", middleware.AdminAuth(cfg))
		{
			protected.GET("/stats", controller.GetStats)                // GET /api/v1/admin/stats
			protected.GET("/shows/:id/guests", controller.GetGuestList) // GET /api/v1/admin/shows/:id/guests
		}
	}
}
