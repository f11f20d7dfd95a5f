package attendance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	taps TapService
	logs LogService
}

func NewHandler(taps TapService, logs LogService) *Handler {
	return &Handler{taps: taps, logs: logs}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Tap ingests one reader tap. The authenticated device comes from the API key
// middleware; the event time is the server clock, never the reader's.
func (h *Handler) Tap(c *gin.Context) {
	var req TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	deviceID := c.GetString("device_id")
	resp, err := h.taps.ProcessTap(c.Request.Context(), deviceID, req.UID, time.Now())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := LogQuery{
		Date:       c.Query("date"),
		EmployeeID: c.Query("employee_id"),
		Limit:      limit,
	}

	resp, err := h.logs.List(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.logs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
