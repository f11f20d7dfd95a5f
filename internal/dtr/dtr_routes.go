package dtr

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/dtr", middleware.Authorize(enforcer, "report", "read"), h.GetAll)
		reports.GET("/dtr/:employeeId", middleware.Authorize(enforcer, "report", "read"), h.GetByEmployee)
	}
}
