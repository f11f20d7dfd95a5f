package dashboard

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

func (h *Handler) TodayStats(c *gin.Context) {
	resp, err := h.service.TodayStats(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
