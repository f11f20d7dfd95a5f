package dashboard

import (
	"context"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	"github.com/gwenythashlie/gadc-attendance-system/internal/employee"

	"gorm.io/gorm"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountActiveEmployees(ctx context.Context) (int64, error)
	// CountPresent counts distinct employees with at least one session on date.
	CountPresent(ctx context.Context, date string) (int64, error)
	CountCurrentlyIn(ctx context.Context, date string) (int64, error)
	RecentSessions(ctx context.Context, date string, limit int) ([]attendance.AttendanceSession, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountActiveEmployees(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("status = ?", employee.StatusActive).
		Count(&n).Error
	return n, err
}

func (r *repository) CountPresent(ctx context.Context, date string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&attendance.AttendanceSession{}).
		Where("date = ?", date).
		Distinct("employee_id").
		Count(&n).Error
	return n, err
}

func (r *repository) CountCurrentlyIn(ctx context.Context, date string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&attendance.AttendanceSession{}).
		Where("date = ?", date).
		Where("time_out IS NULL").
		Count(&n).Error
	return n, err
}

func (r *repository) RecentSessions(ctx context.Context, date string, limit int) ([]attendance.AttendanceSession, error) {
	var rows []attendance.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("date = ?", date).
		Order("GREATEST(time_in, COALESCE(time_out, time_in)) DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
