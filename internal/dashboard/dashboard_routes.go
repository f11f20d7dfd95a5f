package dashboard

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	dash := r.Group("/dashboard")
	dash.Use(middleware.AuthMiddleware())
	{
		dash.GET("/today", middleware.Authorize(enforcer, "dashboard", "read"), h.TodayStats)
	}
}
