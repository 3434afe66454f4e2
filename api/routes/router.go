// api/routes/router.go
package routes

import (
	"log"
	"net/http"
	"time"

	"quickshow/internal/bookings"
	"quickshow/internal/identity"
	"quickshow/internal/movies"
	"quickshow/internal/notifications"
	"quickshow/internal/payments"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/database"
	"quickshow/internal/shows"
	"quickshow/internal/users"
	"quickshow/pkg/cache"

	_ "quickshow/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	notifications *notifications.Service

	cacheService cache.Service
	movieService movies.Service

	// Shared with the release worker started in main
	bookingService   bookings.Service
	releaseScheduler bookings.ReleaseScheduler
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notificationService *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		notifications: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedis())

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupIdentityRoutes(api)

		// Movie routes feed the show routes (shows pull movie metadata in)
		r.setupMovieRoutes(api)
		r.setupShowRoutes(api)

		// Booking routes feed the payment webhook
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// BookingService exposes the booking service for the release worker.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// ReleaseScheduler exposes the due queue for the release worker.
func (r *Router) ReleaseScheduler() bookings.ReleaseScheduler {
	return r.releaseScheduler
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "quickshow-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "quickshow-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupIdentityRoutes configures identity lifecycle webhook routes
func (r *Router) setupIdentityRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	identityService := identity.NewService(userRepo)

	verifier, err := identity.NewSvixVerifier(r.config.Identity.WebhookSecret)
	if err != nil {
		log.Fatalf("invalid identity webhook secret: %v", err)
	}

	identityController := identity.NewController(identityService, verifier)
	identity.SetupIdentityRoutes(rg, identityController)
}

// setupMovieRoutes configures movie catalog routes
func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	metadataClient := movies.NewTMDBClient(r.config.TMDB.BaseURL, r.config.TMDB.APIKey, r.config.TMDB.Timeout)
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	r.movieService = movies.NewService(movieRepo, metadataClient, r.cacheService)
	movieController := movies.NewController(r.movieService)

	movies.SetupMovieRoutes(rg, movieController, r.config)
}

// setupShowRoutes configures show scheduling routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	showService := shows.NewService(showRepo, r.movieService, r.cacheService)
	showController := shows.NewController(showService)

	shows.SetupShowRoutes(rg, showController, r.config)
}

// setupBookingRoutes configures booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	stripeClient := payments.NewStripeClient(r.config.Stripe)
	r.releaseScheduler = bookings.NewReleaseScheduler(r.db.GetRedis())

	r.bookingService = bookings.NewService(
		bookingRepo,
		stripeClient,
		r.releaseScheduler,
		r.notifications,
		r.cacheService,
		r.config.Booking.HoldWindow,
	)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupPaymentRoutes configures payment webhook routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	stripeClient := payments.NewStripeClient(r.config.Stripe)
	paymentService := payments.NewService(stripeClient, r.bookingService)
	paymentController := payments.NewController(paymentService, r.config.Stripe.WebhookSecret)

	payments.SetupPaymentRoutes(rg, paymentController)
}
