package recommendations

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"
)

type Router struct {
	controller *Controller
	cfg        *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, cfg: cfg}
}

func (r *Router) RegisterRoutes(rg *gin.RouterGroup) {
	recs := rg.Group("/recommendations")
	recs.Use(middleware.JWTAuthWithConfig(r.cfg))
	{
		recs.GET("", r.controller.GetRecommendations)
	}
}
