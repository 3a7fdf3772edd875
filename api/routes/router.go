package routes

import (
	"net/http"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/admin"
	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/notifications"
	"github.com/Baro-rgb/CINEBOOK/internal/payments"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/config"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/database"
	"github.com/Baro-rgb/CINEBOOK/internal/shows"
	"github.com/Baro-rgb/CINEBOOK/pkg/cache"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"
	"github.com/Baro-rgb/CINEBOOK/pkg/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// Router holds all route dependencies
type Router struct {
	config              *config.Config
	db                  *database.DB
	asynqClient         *asynq.Client
	scheduler           *scheduler.Scheduler
	notificationService *notifications.Service

	cacheService cache.Service

	// Shared between route groups
	showService shows.Service
	bookingRepo bookings.Repository
	taskHandler *payments.TaskHandler
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, asynqClient *asynq.Client, sched *scheduler.Scheduler, notificationService *notifications.Service) *Router {
	return &Router{
		config:              cfg,
		db:                  db,
		asynqClient:         asynqClient,
		scheduler:           sched,
		notificationService: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	if redisClient := r.db.GetRedisClient(); redisClient != nil {
		r.cacheService = cache.NewService(redisClient)
	}

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes. Show routes come first: bookings, payments and admin all
	// hang off the show service.
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupShowRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupAdminRoutes(api)
	}
}

// SettlementTaskHandler exposes the deferred-settlement handler so main can
// register it with the task server. Valid only after SetupRoutes.
func (r *Router) SettlementTaskHandler() *payments.TaskHandler {
	return r.taskHandler
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupShowRoutes configures show browsing routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	showService := shows.NewService(showRepo)

	if r.cacheService != nil {
		showService.SetCacheService(r.cacheService)
	}

	// Keep the service around: booking, settlement and admin flows reuse it
	r.showService = showService

	showController := shows.NewController(showService)
	shows.SetupShowRoutes(rg, showController)
}

// setupBookingRoutes configures the reservation flow
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())

	gateway := payments.NewHostedCheckoutGateway(&r.config.Payment)
	taskScheduler := payments.NewTaskScheduler(r.asynqClient, r.scheduler)

	bookingService := bookings.NewService(
		r.bookingRepo,
		r.showService,
		gateway,
		taskScheduler,
		&r.config.Booking,
		logger.GetDefault(),
	)

	if r.notificationService != nil {
		bookingService.SetEventPublisher(r.notificationService)
	}

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupPaymentRoutes configures webhook settlement and the deferred task handler
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	appLogger := logger.GetDefault()

	paymentService := payments.NewService(r.bookingRepo, r.showService, appLogger)

	if r.notificationService != nil {
		paymentService.SetEventPublisher(r.notificationService)
	}

	verifier := payments.NewWebhookVerifier(r.config.Payment.WebhookSecret, r.config.Payment.WebhookTolerance)
	paymentController := payments.NewController(paymentService, verifier, appLogger)
	payments.SetupPaymentRoutes(rg, paymentController)

	r.taskHandler = payments.NewTaskHandler(paymentService, appLogger)
}

// setupAdminRoutes configures back-office reconciliation routes
func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	adminRepo := admin.NewRepository(r.db.GetPostgreSQL())
	adminService := admin.NewService(adminRepo, r.bookingRepo, r.showService, logger.GetDefault())

	if r.cacheService != nil {
		adminService.SetCacheService(r.cacheService)
	}

	adminController := admin.NewController(adminService)
	admin.SetupAdminRoutes(rg, adminController)
}
