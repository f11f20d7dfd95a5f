package auth

import (
	"net/http"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Me echoes the authenticated identity from the verified token.
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, UserInfo{
		ID:       c.GetString("user_id"),
		Username: c.GetString("username"),
		Role:     c.GetString("role"),
	}, nil)
}
