package tickets

import (
	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures the ticket download routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/tickets")
	{
		group.GET("/:code/pdf", controller.DownloadPDF) // GET /api/v1/tickets/:code/pdf
	}
}
