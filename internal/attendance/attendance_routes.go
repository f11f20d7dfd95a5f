package attendance

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer, deviceAuth gin.HandlerFunc) {
	// Reader-facing: authenticated by device API key, not by user session.
	r.POST("/tap", deviceAuth, h.Tap)

	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.GET("", middleware.Authorize(enforcer, "attendance", "read"), h.List)
		attendance.GET("/:id", middleware.Authorize(enforcer, "attendance", "read"), h.GetByID)
	}
}
