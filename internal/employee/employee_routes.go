package employee

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	if rdb != nil {
		// Re-sent create/assign forms replay the cached result
		employees.Use(middleware.Idempotency(rdb))
	}
	{
		employees.GET("", middleware.Authorize(enforcer, "employee", "read"), h.GetAll)
		employees.GET("/options", middleware.Authorize(enforcer, "employee", "read"), h.GetOptions)
		employees.GET("/:id", middleware.Authorize(enforcer, "employee", "read"), h.GetByID)
		employees.POST("", middleware.Authorize(enforcer, "employee", "write"), h.Create)
		employees.PUT("/:id", middleware.Authorize(enforcer, "employee", "write"), h.Update)
		employees.DELETE("/:id", middleware.Authorize(enforcer, "employee", "write"), h.Deactivate)
		employees.POST("/:id/assign-card", middleware.Authorize(enforcer, "employee", "write"), h.AssignCard)
	}
}
