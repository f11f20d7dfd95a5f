package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	byKey map[string][2]string
}

func (f *fakeAuthenticator) AuthenticateByAPIKey(_ context.Context, apiKey string) (string, string, error) {
	if identity, ok := f.byKey[apiKey]; ok {
		return identity[0], identity[1], nil
	}
	return "", "", errors.New("invalid api key")
}

func TestDeviceAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	deviceID := uuid.New().String()
	auth := &fakeAuthenticator{byKey: map[string][2]string{
		"good-key": {deviceID, "device_1"},
	}}

	router := gin.New()
	router.POST("/tap", DeviceAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"device_id":   c.GetString("device_id"),
			"device_code": c.GetString("device_code"),
		})
	})

	t.Run("valid key sets device identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tap", nil)
		req.Header.Set("X-API-Key", "good-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), deviceID)
		assert.Contains(t, w.Body.String(), "device_1")
	})

	t.Run("missing key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tap", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid API key")
	})

	t.Run("wrong key reads the same as missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tap", nil)
		req.Header.Set("X-API-Key", "bad-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid API key")
	})
}
