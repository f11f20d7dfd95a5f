package attendance_test

import (
	"context"
	"testing"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	attendanceerrors "github.com/gwenythashlie/gadc-attendance-system/internal/attendance/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestLogServiceList(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		rows := []attendance.AttendanceSession{
			{ID: uuid.New(), EmployeeID: uuid.New(), Date: "2026-02-02", TimeIn: at(8, 0)},
		}
		repo.EXPECT().
			ListFiltered(gomock.Any(), "2026-02-02", "emp-1", 25).
			Return(rows, nil)

		svc := attendance.NewLogService(repo)

		got, err := svc.List(context.Background(), attendance.LogQuery{
			Date:       "2026-02-02",
			EmployeeID: "emp-1",
			Limit:      25,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, rows[0].ID.String(), got[0].ID)
	})

	t.Run("rejects a malformed date filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)

		svc := attendance.NewLogService(repo)

		_, err := svc.List(context.Background(), attendance.LogQuery{Date: "02/02/2026"})
		assert.Error(t, err)
	})
}

func TestLogServiceGetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)

	repo.EXPECT().
		FindByID(gomock.Any(), "missing").
		Return(nil, gorm.ErrRecordNotFound)

	svc := attendance.NewLogService(repo)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, attendanceerrors.ErrSessionNotFound)
}
