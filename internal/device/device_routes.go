package device

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	devices := r.Group("/devices")
	devices.Use(middleware.AuthMiddleware())
	{
		devices.GET("", middleware.Authorize(enforcer, "device", "read"), h.GetAll)
		devices.POST("", middleware.Authorize(enforcer, "device", "write"), h.Register)
	}
}
