package payments

import (
	"context"
	"errors"
	"net/http"

	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shared/utils/response"
	"stagedoor/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Reconciler turns verified payment events into bookings. Implemented by the
// bookings package; declared here so the webhook handler does not depend on it.
type Reconciler interface {
	HandlePaymentSucceeded(ctx context.Context, event *PaymentEvent) error
	HandlePaymentRefunded(ctx context.Context, event *PaymentEvent) error
}

type Controller struct {
	service    Service
	provider   Provider
	reconciler Reconciler
	log        *logger.Logger
}

func NewController(service Service, provider Provider, reconciler Reconciler, log *logger.Logger) *Controller {
	return &Controller{
		service:    service,
		provider:   provider,
		reconciler: reconciler,
		log:        log,
	}
}

func (c *Controller) CreateAuthorization(ctx *gin.Context) {
	var req CreateAuthorizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.CreateAuthorization(ctx.Request.Context(), req)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Payment authorization created", result)
}

// HandleWebhook responds with the bare acknowledgement shape the payment
// provider expects, not the API envelope. Processing failures after a valid
// signature are logged and acked so the provider does not retry forever
// against a bug on our side; only malformed payloads get a 400.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	sigHeader := ctx.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.log.LogWebhookRejected(ctx.Request.Context(), "missing signature header", ctx.ClientIP())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
		return
	}

	event, err := c.provider.VerifyEvent(payload, sigHeader)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidSignature):
			c.log.LogWebhookRejected(ctx.Request.Context(), "invalid signature", ctx.ClientIP())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		case errors.Is(err, apperrors.ErrMalformedEvent):
			c.log.LogWebhookRejected(ctx.Request.Context(), "malformed event payload", ctx.ClientIP())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		default:
			c.log.LogWebhookRejected(ctx.Request.Context(), err.Error(), ctx.ClientIP())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
		}
		return
	}

	switch event.Kind {
	case EventPaymentSucceeded:
		err = c.reconciler.HandlePaymentSucceeded(ctx.Request.Context(), event)
	case EventPaymentRefunded:
		err = c.reconciler.HandlePaymentRefunded(ctx.Request.Context(), event)
	default:
		// Event types we do not act on are acked without processing.
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedEvent) {
			c.log.LogWebhookRejected(ctx.Request.Context(), "event missing booking metadata", ctx.ClientIP())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
			return
		}
		c.log.WithError(err).Error("webhook event processing failed",
			"payment_ref", event.PaymentRef,
			"kind", string(event.Kind),
		)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
