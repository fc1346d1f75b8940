package auth

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles auth-related routes.
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// RegisterRoutes registers all auth routes.
func (r *Router) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.controller.Register)
		auth.POST("/login", r.controller.Login)
		auth.POST("/refresh", r.controller.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthWithConfig(r.config))
		{
			protected.GET("/me", r.controller.GetMe)
		}
	}
}
