package audit

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.Authorize(enforcer, "audit", "read"), h.ListRecent)
	}
}
