package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *AttendanceSession) error
	FindByID(ctx context.Context, id string) (*AttendanceSession, error)
	FindLatestByEmployeeAndDate(ctx context.Context, employeeID, date string) (*AttendanceSession, error)
	// CloseSession sets time_out and device_out only while the session is
	// still open, and reports how many rows were updated. Zero means another
	// tap closed it first.
	CloseSession(ctx context.Context, id string, timeOut time.Time, deviceOut string) (int64, error)
	AppendNote(ctx context.Context, id string, note string) error
	ListFiltered(ctx context.Context, date, employeeID string, limit int) ([]AttendanceSession, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *AttendanceSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindLatestByEmployeeAndDate(ctx context.Context, employeeID, date string) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date).
		Order("time_in DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CloseSession(ctx context.Context, id string, timeOut time.Time, deviceOut string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&AttendanceSession{}).
		Where("id = ?", id).
		Where("time_out IS NULL").
		Updates(map[string]any{
			"time_out":   timeOut,
			"device_out": deviceOut,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) AppendNote(ctx context.Context, id string, note string) error {
	return r.db.WithContext(ctx).
		Model(&AttendanceSession{}).
		Where("id = ?", id).
		Update("notes", gorm.Expr(
			"CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || '; ' || ? END",
			note, note,
		)).Error
}

func (r *repository) ListFiltered(ctx context.Context, date, employeeID string, limit int) ([]AttendanceSession, error) {
	q := r.db.WithContext(ctx).Preload("Employee")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if limit <= 0 {
		limit = 100
	}

	var rows []AttendanceSession
	err := q.
		Order("date DESC").
		Order("time_in DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
