package middleware

import (
	"context"
	"net/http"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// DeviceAuthenticator is a local interface so this package stays free of
// domain imports; the device module provides an adapter satisfying it.
type DeviceAuthenticator interface {
	AuthenticateByAPIKey(ctx context.Context, apiKey string) (deviceID, deviceCode string, err error)
}

// DeviceAuth guards reader-facing endpoints with the X-API-Key credential.
// A failed lookup is always reported as an invalid key, never as not-found,
// so the endpoint does not leak which keys exist.
func DeviceAuth(auth DeviceAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", nil)
			c.Abort()
			return
		}

		deviceID, deviceCode, err := auth.AuthenticateByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", nil)
			c.Abort()
			return
		}

		c.Set("device_id", deviceID)
		c.Set("device_code", deviceCode)

		c.Next()
	}
}
