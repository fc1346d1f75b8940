package bookings

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"
)

type Router struct {
	controller Controller
	cfg        *config.Config
}

func NewRouter(controller Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, cfg: cfg}
}

func (r *Router) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(r.cfg))
	{
		bookings.POST("", r.controller.CreateBooking)
		bookings.POST("/verify-membership", r.controller.VerifyMembership)
		bookings.GET("/my", r.controller.GetMyBookings)
		bookings.GET("/:bookingId", r.controller.GetBooking)
	}

	admin := rg.Group("/admin/events")
	admin.Use(middleware.JWTAuthWithConfig(r.cfg), middleware.RequireAdmin())
	{
		admin.GET("/:eventId/bookings", r.controller.GetEventBookings)
	}
}
