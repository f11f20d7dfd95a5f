package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	attendanceerrors "github.com/gwenythashlie/gadc-attendance-system/internal/attendance/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/employee"
	"github.com/gwenythashlie/gadc-attendance-system/internal/events"
	"github.com/gwenythashlie/gadc-attendance-system/internal/messaging/kafka"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory is the slice of the employee module the tap pipeline
// needs; the employee repository satisfies it.
type EmployeeDirectory interface {
	FindActiveByBadge(ctx context.Context, rfidUID string) (*employee.Employee, error)
}

// AuditRecorder never fails the caller; implementations log their own errors.
type AuditRecorder interface {
	Record(ctx context.Context, action, actorType, actorID string, details map[string]any)
}

//go:generate mockgen -source=tap_service.go -destination=mock/tap_service_mock.go -package=mock
type TapService interface {
	ProcessTap(ctx context.Context, deviceID, uid string, now time.Time) (TapResponse, error)
}

type tapService struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	outbox    kafka.OutboxRepository
	audit     AuditRecorder
	policy    config.TapPolicy

	rate     *DeviceRateLimiter
	cooldown *CooldownGuard
	locks    *KeyMutex

	logger *zap.Logger
}

// NewTapService wires the tap pipeline. Guard state lives inside the service:
// it is initialized here, survives for the process lifetime, and needs no
// teardown. outbox and audit may be nil.
func NewTapService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	outbox kafka.OutboxRepository,
	audit AuditRecorder,
	policy config.TapPolicy,
	logger ...*zap.Logger,
) TapService {
	l := zap.L().Named("attendance.tap")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.tap")
	}
	return &tapService{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		audit:     audit,
		policy:    policy,
		rate:      NewDeviceRateLimiter(policy.RateLimit, policy.RateWindow),
		cooldown:  NewCooldownGuard(policy.Cooldown),
		locks:     NewKeyMutex(),
		logger:    l,
	}
}

// ProcessTap decides whether a validated tap opens or closes a session.
// Guard rejections and unknown badges are terminal; a lost close race is
// retried once against fresh state before surfacing.
func (s *tapService) ProcessTap(ctx context.Context, deviceID, uid string, now time.Time) (TapResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	// Rate limit first: it protects from floods regardless of card identity.
	if !s.rate.Allow(deviceID, now) {
		s.logger.Warn("tap rate limited", zap.String("request_id", rid), zap.String("device_id", deviceID))
		return TapResponse{}, attendanceerrors.ErrRateLimited
	}

	normalized := strings.ToUpper(strings.TrimSpace(uid))
	if normalized == "" {
		return TapResponse{}, apperror.RequiredField("Uid")
	}

	if !s.cooldown.Allow(deviceID, normalized, now) {
		s.logger.Debug("tap suppressed by cooldown",
			zap.String("request_id", rid),
			zap.String("device_id", deviceID),
			zap.String("uid", normalized),
		)
		return TapResponse{}, attendanceerrors.ErrCooldown
	}

	emp, err := s.employees.FindActiveByBadge(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TapResponse{}, attendanceerrors.ErrUnknownBadge
		}
		return TapResponse{}, storeUnavailable(err)
	}

	date := s.policy.LocalDate(now)

	// Serialize read-decide-write per employee; other employees' taps run
	// in parallel.
	unlock := s.locks.Lock(emp.ID.String())
	defer unlock()

	outcome, err := s.decideAndApply(ctx, emp, deviceID, date, now)
	if errors.Is(err, attendanceerrors.ErrConcurrentConflict) {
		s.logger.Warn("tap close race lost, retrying against fresh state",
			zap.String("request_id", rid),
			zap.String("employee_id", emp.ID.String()),
		)
		outcome, err = s.decideAndApply(ctx, emp, deviceID, date, now)
	}
	if err != nil {
		return TapResponse{}, err
	}

	s.publishOutcome(ctx, emp, deviceID, outcome, now)

	if s.audit != nil {
		s.audit.Record(ctx, "attendance_tap", "device", deviceID, map[string]any{
			"employee_id": emp.ID.String(),
			"action":      outcome.action,
			"uid":         normalized,
		})
	}

	s.logger.Info("tap processed",
		zap.String("request_id", rid),
		zap.String("employee", emp.FullName),
		zap.String("action", outcome.action),
		zap.Bool("is_late", outcome.session.IsLate),
	)

	var notes *string
	if joined := strings.Join(outcome.notes, "; "); joined != "" {
		notes = &joined
	}

	return TapResponse{
		Action:       outcome.action,
		Name:         emp.FullName,
		EmployeeCode: emp.EmployeeCode,
		Time:         now,
		IsLate:       outcome.session.IsLate,
		Notes:        notes,
		Session:      mapSessionToResponse(outcome.session),
	}, nil
}

type tapOutcome struct {
	action  string
	session AttendanceSession
	notes   []string
}

// decideAndApply runs one read-decide-write pass. The state machine has two
// states: no open session for the date means TIME_IN, an open session means
// TIME_OUT on that session. Multiple in/out cycles per day are expected.
func (s *tapService) decideAndApply(ctx context.Context, emp *employee.Employee, deviceID, date string, now time.Time) (tapOutcome, error) {
	latest, err := s.repo.FindLatestByEmployeeAndDate(ctx, emp.ID.String(), date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return tapOutcome{}, storeUnavailable(err)
	}

	if latest == nil || !latest.Open() {
		return s.timeIn(ctx, emp, deviceID, date, now)
	}
	return s.timeOut(ctx, latest, deviceID, now)
}

func (s *tapService) timeIn(ctx context.Context, emp *employee.Employee, deviceID, date string, now time.Time) (tapOutcome, error) {
	var notes []string
	isLate := s.policy.MinuteOfDay(now) > s.policy.LateAfter
	if isLate {
		notes = append(notes, fmt.Sprintf("Late arrival: %s", now.In(s.policy.Location).Format("15:04")))
	}

	deviceUUID, err := uuid.Parse(deviceID)
	if err != nil {
		return tapOutcome{}, apperror.Wrap(err, apperror.CodeInvalidInput, "Invalid device ID", 400)
	}

	row := &AttendanceSession{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Date:       date,
		TimeIn:     now,
		DeviceIn:   &deviceUUID,
		IsLate:     isLate,
	}
	if joined := strings.Join(notes, "; "); joined != "" {
		row.Notes = &joined
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return tapOutcome{}, storeUnavailable(err)
	}

	return tapOutcome{action: ActionTimeIn, session: *row, notes: notes}, nil
}

func (s *tapService) timeOut(ctx context.Context, open *AttendanceSession, deviceID string, now time.Time) (tapOutcome, error) {
	affected, err := s.repo.CloseSession(ctx, open.ID.String(), now, deviceID)
	if err != nil {
		return tapOutcome{}, storeUnavailable(err)
	}
	if affected == 0 {
		// Another in-flight tap closed it between our read and write
		return tapOutcome{}, attendanceerrors.ErrConcurrentConflict
	}

	var notes []string
	minute := s.policy.MinuteOfDay(now)
	if minute >= s.policy.LunchStart && minute <= s.policy.LunchEnd {
		note := "Lunch break time out"
		notes = append(notes, note)
		// The time-out is already committed; a failed annotation must not
		// undo it.
		if err := s.repo.AppendNote(ctx, open.ID.String(), note); err != nil {
			s.logger.Warn("append lunch note failed", zap.String("session_id", open.ID.String()), zap.Error(err))
		}
	}

	closed := *open
	closed.TimeOut = &now
	if deviceUUID, err := uuid.Parse(deviceID); err == nil {
		closed.DeviceOut = &deviceUUID
	}
	if len(notes) > 0 {
		joined := strings.Join(notes, "; ")
		if closed.Notes != nil && *closed.Notes != "" {
			joined = *closed.Notes + "; " + joined
		}
		closed.Notes = &joined
	}

	return tapOutcome{action: ActionTimeOut, session: closed, notes: notes}, nil
}

// publishOutcome enqueues the broadcast event through the outbox. Best
// effort: the session mutation already stands, so an enqueue failure is
// logged and the tap still succeeds.
func (s *tapService) publishOutcome(ctx context.Context, emp *employee.Employee, deviceID string, outcome tapOutcome, now time.Time) {
	if s.outbox == nil {
		return
	}

	event := events.AttendanceTappedEvent{
		SessionID:    outcome.session.ID.String(),
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.FullName,
		EmployeeCode: emp.EmployeeCode,
		Action:       outcome.action,
		DeviceID:     deviceID,
		IsLate:       outcome.session.IsLate,
		Notes:        strings.Join(outcome.notes, "; "),
		OccurredAt:   now,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal attendance event failed", zap.Error(err))
		return
	}

	repo := s.outbox
	var tx *sql.Tx
	if s.db != nil {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			s.logger.Error("begin outbox tx failed", zap.Error(err))
			return
		}
		defer tx.Rollback()
		repo = s.outbox.WithTx(tx)
	}

	err = repo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance_session",
		AggregateID:   outcome.session.ID.String(),
		EventType:     "attendance.tapped",
		Topic:         events.AttendanceTappedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("enqueue attendance event failed", zap.Error(err))
		return
	}
	if tx != nil {
		if err := tx.Commit(); err != nil {
			s.logger.Error("commit outbox tx failed", zap.Error(err))
		}
	}
}

func storeUnavailable(err error) error {
	return apperror.Wrap(
		err,
		apperror.CodeServiceUnavailable,
		"Attendance store unavailable",
		503,
	)
}
