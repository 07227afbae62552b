package tickets

import (
	"errors"
	"fmt"
	"net/http"

	"stagedoor/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// errRefundedTicket marks a ticket whose booking was refunded. Served as 410
// so the guest knows the ticket used to exist.
var errRefundedTicket = errors.New("ticket refunded")

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// DownloadPDF streams the rendered ticket
func (c *Controller) DownloadPDF(ctx *gin.Context) {
	code := ctx.Param("code")

	pdfBytes, err := c.service.RenderTicketPDF(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, errRefundedTicket) {
			response.Error(ctx, http.StatusGone, "This ticket has been refunded", nil)
			return
		}
		response.FromError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.pdf", code))
	ctx.Data(http.StatusOK, "application/pdf", pdfBytes)
}
