package members

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
	admin := rg.Group("/admin/members")
	admin.Use(middleware.JWTAuthWithConfig(r.cfg), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.CreateMember)
		admin.GET("", r.controller.ListMembers)
		admin.GET("/:id", r.controller.GetMember)
		admin.PATCH("/:id", r.controller.UpdateMember)
		admin.DELETE("/:id", r.controller.DeleteMember)
	}
}
