package events

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
	// Browsing and the seat map are public; selection is client-local so
	// no auth is needed until checkout.
	public := rg.Group("/events")
	{
		public.GET("", r.controller.GetAllEvents)
		public.GET("/upcoming", r.controller.GetUpcomingEvents)
		public.GET("/:eventId", r.controller.GetEvent)
		public.GET("/:eventId/seatmap", r.controller.GetSeatmap)
		public.GET("/:eventId/availability/stream", r.controller.StreamAvailability)
	}

	admin := rg.Group("/admin/events")
	admin.Use(middleware.JWTAuthWithConfig(r.cfg), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.CreateEvent)
		admin.PUT("/:eventId", r.controller.UpdateEvent)
		admin.DELETE("/:eventId", r.controller.DeleteEvent)
	}
}
