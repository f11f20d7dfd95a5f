package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	attendanceerrors "github.com/gwenythashlie/gadc-attendance-system/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTapService struct {
	processFn func(ctx context.Context, deviceID, uid string, now time.Time) (attendance.TapResponse, error)
}

func (f *fakeTapService) ProcessTap(ctx context.Context, deviceID, uid string, now time.Time) (attendance.TapResponse, error) {
	return f.processFn(ctx, deviceID, uid, now)
}

type fakeLogService struct {
	listFn func(ctx context.Context, q attendance.LogQuery) ([]attendance.SessionResponse, error)
	getFn  func(ctx context.Context, id string) (attendance.SessionResponse, error)
}

func (f *fakeLogService) List(ctx context.Context, q attendance.LogQuery) ([]attendance.SessionResponse, error) {
	return f.listFn(ctx, q)
}
func (f *fakeLogService) GetByID(ctx context.Context, id string) (attendance.SessionResponse, error) {
	return f.getFn(ctx, id)
}

func TestHandler_Tap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("accepted tap", func(t *testing.T) {
		taps := &fakeTapService{
			processFn: func(_ context.Context, deviceID, uid string, _ time.Time) (attendance.TapResponse, error) {
				assert.Equal(t, testDeviceID, deviceID)
				assert.Equal(t, "04A1B2C3", uid)
				return attendance.TapResponse{Action: attendance.ActionTimeIn, Name: "Gwenyth Ashlie"}, nil
			},
		}
		h := attendance.NewHandler(taps, &fakeLogService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("device_id", testDeviceID)
		c.Request = httptest.NewRequest(http.MethodPost, "/tap", strings.NewReader(`{"uid":"04A1B2C3"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Tap(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"TIME_IN"`)
	})

	t.Run("missing uid fails validation", func(t *testing.T) {
		h := attendance.NewHandler(&fakeTapService{}, &fakeLogService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("device_id", testDeviceID)
		c.Request = httptest.NewRequest(http.MethodPost, "/tap", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Tap(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cooldown rejection maps to 429", func(t *testing.T) {
		taps := &fakeTapService{
			processFn: func(context.Context, string, string, time.Time) (attendance.TapResponse, error) {
				return attendance.TapResponse{}, attendanceerrors.ErrCooldown
			},
		}
		h := attendance.NewHandler(taps, &fakeLogService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("device_id", testDeviceID)
		c.Request = httptest.NewRequest(http.MethodPost, "/tap", strings.NewReader(`{"uid":"04A1B2C3"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Tap(c)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "TAP_COOLDOWN")
	})
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logs := &fakeLogService{
		listFn: func(_ context.Context, q attendance.LogQuery) ([]attendance.SessionResponse, error) {
			assert.Equal(t, "2026-02-02", q.Date)
			assert.Equal(t, 25, q.Limit)
			return []attendance.SessionResponse{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	h := attendance.NewHandler(&fakeTapService{}, logs)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance?date=2026-02-02&limit=25", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}
