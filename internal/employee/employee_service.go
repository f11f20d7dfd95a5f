package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "github.com/gwenythashlie/gadc-attendance-system/internal/employee/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
	AssignCard(ctx context.Context, id string, req AssignCardRequest) (AssignCardResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func validateProgram(program string) (string, error) {
	if program == "" {
		return ProgramCpE, nil
	}
	switch program {
	case ProgramCpE, ProgramIT:
		return program, nil
	default:
		return "", employeeerrors.ErrInvalidProgram
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("employee_code", req.EmployeeCode),
	)

	program, err := validateProgram(req.Program)
	if err != nil {
		return EmployeeResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = "intern"
	}

	row := &Employee{
		ID:            uuid.New(),
		EmployeeCode:  req.EmployeeCode,
		FullName:      req.FullName,
		Role:          role,
		Program:       program,
		RequiredHours: RequiredHoursForProgram(program),
		PhotoURL:      req.PhotoURL,
		Status:        StatusActive,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create employee failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// GetOptions serves the active-employee dropdown. The list is read on every
// dashboard refresh, so it is cached in redis and guarded by singleflight
// against a stampede after invalidation.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var res []EmployeeResponse
			if err := json.Unmarshal([]byte(cached), &res); err == nil {
				return res, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		res := make([]EmployeeResponse, len(rows))
		for i, r := range rows {
			res[i] = mapToResponse(r)
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(res); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, payload, 5*time.Minute).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	program, err := validateProgram(req.Program)
	if err != nil {
		return EmployeeResponse{}, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	row.FullName = req.FullName
	row.EmployeeCode = req.EmployeeCode
	if req.Role != "" {
		row.Role = req.Role
	}
	row.Program = program
	row.RequiredHours = RequiredHoursForProgram(program)
	if req.RFIDUID != nil {
		normalized := strings.ToUpper(strings.TrimSpace(*req.RFIDUID))
		if normalized == "" {
			row.RFIDUID = nil
		} else {
			row.RFIDUID = &normalized
		}
	}
	if req.PhotoURL != nil {
		row.PhotoURL = req.PhotoURL
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return mapToResponse(*row), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	row.Status = StatusInactive
	if err := s.repo.Update(ctx, row); err != nil {
		return mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return nil
}

func (s *service) AssignCard(ctx context.Context, id string, req AssignCardRequest) (AssignCardResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignCardResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	normalized := strings.ToUpper(strings.TrimSpace(req.RFIDUID))
	if normalized == "" {
		return AssignCardResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	// Reject if another employee already holds this card
	existing, err := s.repo.FindByBadgeExcluding(ctx, normalized, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AssignCardResponse{}, mapRepositoryError(err)
	}
	if existing != nil {
		s.logger.Warn("assign card conflict",
			zap.String("rfid_uid", normalized),
			zap.String("held_by", existing.ID.String()),
		)
		return AssignCardResponse{}, employeeerrors.ErrCardAlreadyAssigned
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AssignCardResponse{}, mapRepositoryError(err)
	}

	row.RFIDUID = &normalized
	if err := s.repo.Update(ctx, row); err != nil {
		return AssignCardResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return AssignCardResponse{EmployeeID: id, RFIDUID: normalized}, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Warn("invalidate employee options cache failed", zap.Error(err))
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID.String(),
		EmployeeCode:  e.EmployeeCode,
		FullName:      e.FullName,
		RFIDUID:       e.RFIDUID,
		Role:          e.Role,
		Program:       e.Program,
		RequiredHours: e.RequiredHours,
		PhotoURL:      e.PhotoURL,
		Status:        e.Status,
	}
}
