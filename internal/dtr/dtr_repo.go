package dtr

import (
	"context"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"

	"gorm.io/gorm"
)

//go:generate mockgen -source=dtr_repo.go -destination=mock/dtr_repo_mock.go -package=mock
type Repository interface {
	// ListByEmployeeAndRange returns sessions with date in [start, end]
	// inclusive, ordered by date then time-in ascending.
	ListByEmployeeAndRange(ctx context.Context, employeeID, start, end string) ([]attendance.AttendanceSession, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByEmployeeAndRange(ctx context.Context, employeeID, start, end string) ([]attendance.AttendanceSession, error) {
	var rows []attendance.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date >= ?", start).
		Where("date <= ?", end).
		Order("date ASC").
		Order("time_in ASC").
		Find(&rows).Error
	return rows, err
}
