package response

import (
	"errors"
	"net/http"

	"stagedoor/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, Envelope{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope with the given payload.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error writes an error envelope.
func Error(c *gin.Context, code int, message string, details interface{}) {
	RespondJSON(c, "error", code, message, nil, details)
}

// FromError maps a service error to an HTTP status using the shared sentinel
// errors and writes the error envelope.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		Error(c, http.StatusConflict, "not enough seats available", nil)
	case errors.Is(err, apperrors.ErrInvalidSignature):
		Error(c, http.StatusBadRequest, "invalid signature", nil)
	case errors.Is(err, apperrors.ErrMalformedEvent), errors.Is(err, apperrors.ErrValidation):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, apperrors.ErrTimeout):
		Error(c, http.StatusGatewayTimeout, "upstream call timed out, please retry", nil)
	case errors.Is(err, apperrors.ErrUpstream):
		Error(c, http.StatusBadGateway, "payment provider unavailable, please retry", nil)
	default:
		Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}
