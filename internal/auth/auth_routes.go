package auth

import (
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		// Brute-force protection: 5 attempts per second burst 10 per IP
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(5), 10), h.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}
