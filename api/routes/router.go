// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"stagepass/internal/auth"
	"stagepass/internal/availability"
	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/members"
	"stagepass/internal/recommendations"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/pkg/cache"
	"stagepass/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies.
type Router struct {
	config *config.Config
	db     *database.DB

	// Shared across feature routers after setup.
	cacheService    cache.Service
	bookingsRepo    bookings.Repository
	bookingsService bookings.Service
	eventsService   events.Service
	membersRepo     members.Repository
}

// NewRouter creates a new router instance.
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cache.NewService(db.GetRedis()),
	}
}

// BookingsService exposes the wired booking service so the server can
// attach the notification producer once Kafka is up.
func (r *Router) BookingsService() bookings.Service {
	return r.bookingsService
}

// SetupRoutes configures all application routes.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	api.Use(ratelimit.Middleware(ratelimit.NewLimiter(r.db.GetRedis(), r.config.RateLimit)))
	{
		r.setupAuthRoutes(api)
		r.setupMemberRoutes(api)

		// The event service reports seat usage through the booking
		// repository, and the booking service reads event snapshots
		// through the event service, so the repository comes first.
		r.bookingsRepo = bookings.NewRepository(r.db.GetPostgreSQL())

		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
		r.setupRecommendationRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagepass-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagepass-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.NewRouter(authController, r.config).RegisterRoutes(rg)
}

func (r *Router) setupMemberRoutes(rg *gin.RouterGroup) {
	r.membersRepo = members.NewRepository(r.db.GetPostgreSQL())
	memberService := members.NewService(r.membersRepo)
	memberController := members.NewController(memberService)

	members.NewRouter(memberController, r.config).RegisterRoutes(rg)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	r.eventsService = events.NewService(eventRepo)
	r.eventsService.SetSeatUsage(r.bookingsRepo)
	r.eventsService.SetCacheService(r.cacheService)
	r.eventsService.SetChangePublisher(events.NewChangePublisher(r.db.GetRedis()))

	feed := availability.NewFeed(r.db.GetRedis())
	eventController := events.NewController(r.eventsService, feed)
	events.NewRouter(eventController, r.config).RegisterRoutes(rg)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	verifier := bookings.NewVerifier(r.membersRepo, r.bookingsRepo)
	eventSource := events.NewBookingEventSource(r.eventsService)

	r.bookingsService = bookings.NewService(r.bookingsRepo, eventSource, verifier, r.config)
	r.bookingsService.SetFeed(availability.NewFeed(r.db.GetRedis()))

	bookingController := bookings.NewController(r.bookingsService)
	bookings.NewRouter(bookingController, r.config).RegisterRoutes(rg)
}

func (r *Router) setupRecommendationRoutes(rg *gin.RouterGroup) {
	generator := recommendations.NewHTTPGenerator(r.config.Recs)
	recService := recommendations.NewService(generator, r.eventsService, r.cacheService)
	recController := recommendations.NewController(recService)

	recommendations.NewRouter(recController, r.config).RegisterRoutes(rg)
}
