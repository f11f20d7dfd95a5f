package attendance

import (
	"context"
	"errors"
	"time"

	attendanceerrors "github.com/gwenythashlie/gadc-attendance-system/internal/attendance/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LogQuery struct {
	Date       string
	EmployeeID string
	Limit      int
}

// LogService serves the admin-facing attendance log views.
type LogService interface {
	List(ctx context.Context, q LogQuery) ([]SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
}

type logService struct {
	repo   Repository
	logger *zap.Logger
}

func NewLogService(repo Repository, logger ...*zap.Logger) LogService {
	l := zap.L().Named("attendance.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.log")
	}
	return &logService{repo: repo, logger: l}
}

func (s *logService) List(ctx context.Context, q LogQuery) ([]SessionResponse, error) {
	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return nil, apperror.InvalidField("Date")
		}
	}

	rows, err := s.repo.ListFiltered(ctx, q.Date, q.EmployeeID, q.Limit)
	if err != nil {
		s.logger.Error("list attendance sessions failed", zap.Error(err))
		return nil, storeUnavailable(err)
	}

	resp := make([]SessionResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, mapSessionToResponse(row))
	}
	return resp, nil
}

func (s *logService) GetByID(ctx context.Context, id string) (SessionResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrSessionNotFound
		}
		s.logger.Error("find attendance session failed", zap.String("id", id), zap.Error(err))
		return SessionResponse{}, storeUnavailable(err)
	}
	return mapSessionToResponse(*row), nil
}
