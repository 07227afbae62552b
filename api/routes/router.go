package routes

import (
	"net/http"
	"time"

	"stagedoor/internal/admin"
	"stagedoor/internal/bookings"
	"stagedoor/internal/experiences"
	"stagedoor/internal/notifications"
	"stagedoor/internal/payments"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/pkg/cache"
	"stagedoor/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	log    *logger.Logger

	// Shared across route groups
	cacheService   cache.Service
	provider       payments.Provider
	showService    shows.Service
	bookingService bookings.Service
	bookingRepo    bookings.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger) *Router {
	return &Router{
		config: cfg,
		db:     db,
		log:    log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.Redis)
	}
	r.provider = payments.NewStripeProvider(r.config.Stripe.APIKey, r.config.Stripe.WebhookSecret)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupExperienceRoutes(api)
		r.setupShowRoutes(api)
		r.setupBookingAndPaymentRoutes(api)
		r.setupTicketRoutes(api)
		r.setupAdminRoutes(api)
	}
}

// BookingService exposes the booking service for background workers
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// BookingRepository exposes the booking repository for background workers
func (r *Router) BookingRepository() bookings.Repository {
	return r.bookingRepo
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagedoor-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagedoor-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupExperienceRoutes configures the experience catalog routes
func (r *Router) setupExperienceRoutes(rg *gin.RouterGroup) {
	experienceRepo := experiences.NewRepository(r.db.GetPostgreSQL())
	experienceService := experiences.NewService(experienceRepo)
	experienceController := experiences.NewController(experienceService)

	experiences.SetupExperienceRoutes(rg, experienceController)

	// Shows resolve experience slugs through the same service
	r.setupShowService(experienceService)
}

func (r *Router) setupShowService(experienceService experiences.Service) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	r.showService = shows.NewService(showRepo, experienceService)
	if r.cacheService != nil {
		r.showService.SetCacheService(r.cacheService, r.config.Redis.ShowListTTL)
	}
}

// setupShowRoutes configures show listing and scheduling routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showController := shows.NewController(r.showService)
	shows.SetupShowRoutes(rg, showController, r.config)
}

// setupBookingAndPaymentRoutes wires the payment orchestrator, the webhook
// reconciler, and the confirmation lookup together.
func (r *Router) setupBookingAndPaymentRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(r.bookingRepo, r.showService, r.provider, r.log)

	paymentService := payments.NewService(r.provider, r.showService)
	paymentController := payments.NewController(paymentService, r.provider, r.bookingService, r.log)
	payments.SetupPaymentRoutes(rg, paymentController)

	bookingController := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupTicketRoutes configures the ticket PDF download routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketService := tickets.NewService(r.bookingService)
	ticketController := tickets.NewController(ticketService)
	tickets.SetupTicketRoutes(rg, ticketController)
}

// setupAdminRoutes configures the admin login and dashboard routes
func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	adminRepo := admin.NewRepository(r.db.GetPostgreSQL())
	adminService := admin.NewService(r.config, adminRepo, r.showService, r.bookingRepo, r.log)
	if r.cacheService != nil {
		adminService.SetCacheService(r.cacheService)
	}
	adminController := admin.NewController(adminService)
	admin.SetupAdminRoutes(rg, adminController, r.config)
}

// WireNotifications attaches the confirmation dispatcher and the Kafka retry
// pipeline to the booking service. Called from main after the Kafka clients
// are up; the API works without it, bookings just go unnotified.
func (r *Router) WireNotifications(dispatcher *notifications.Dispatcher, producer *notifications.RetryProducer) {
	if dispatcher != nil {
		r.bookingService.SetNotifier(dispatcher)
	}
	if producer != nil {
		r.bookingService.SetRetryPublisher(producer)
	}
}
