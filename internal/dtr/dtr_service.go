package dtr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/employee"
	employeeerrors "github.com/gwenythashlie/gadc-attendance-system/internal/employee/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeSource is the slice of the employee module the aggregator needs.
type EmployeeSource interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindAllActive(ctx context.Context) ([]employee.Employee, error)
}

//go:generate mockgen -source=dtr_service.go -destination=mock/dtr_service_mock.go -package=mock
type Service interface {
	Summarize(ctx context.Context, employeeID, start, end string) (DTRSummary, error)
	SummarizeAll(ctx context.Context, start, end string) ([]DTRSummary, error)
}

type service struct {
	repo      Repository
	employees EmployeeSource
	policy    config.TapPolicy
	logger    *zap.Logger
}

func NewService(repo Repository, employees EmployeeSource, policy config.TapPolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("dtr")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dtr")
	}
	return &service{repo: repo, employees: employees, policy: policy, logger: l}
}

func (s *service) Summarize(ctx context.Context, employeeID, start, end string) (DTRSummary, error) {
	start, end, err := s.normalizeRange(start, end)
	if err != nil {
		return DTRSummary{}, err
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DTRSummary{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("find employee failed", zap.String("employee_id", employeeID), zap.Error(err))
		return DTRSummary{}, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Report store unavailable", 503)
	}

	return s.summarizeEmployee(ctx, emp, start, end)
}

// SummarizeAll runs the per-employee computation for every active employee.
// The repository returns them ordered by display name, and the order is
// preserved here.
func (s *service) SummarizeAll(ctx context.Context, start, end string) ([]DTRSummary, error) {
	start, end, err := s.normalizeRange(start, end)
	if err != nil {
		return nil, err
	}

	emps, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("list active employees failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Report store unavailable", 503)
	}

	summaries := make([]DTRSummary, 0, len(emps))
	for i := range emps {
		summary, err := s.summarizeEmployee(ctx, &emps[i], start, end)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *service) summarizeEmployee(ctx context.Context, emp *employee.Employee, start, end string) (DTRSummary, error) {
	sessions, err := s.repo.ListByEmployeeAndRange(ctx, emp.ID.String(), start, end)
	if err != nil {
		s.logger.Error("list sessions failed", zap.String("employee_id", emp.ID.String()), zap.Error(err))
		return DTRSummary{}, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Report store unavailable", 503)
	}

	entries := make([]DTREntry, 0, len(sessions))
	var totalHours float64
	for i := range sessions {
		sess := &sessions[i]
		if !s.isWeekday(sess.Date) {
			// Weekend work never counts toward the target
			continue
		}
		hours := sessionHours(sess)
		totalHours += hours
		entries = append(entries, DTREntry{
			SessionID: sess.ID.String(),
			Date:      sess.Date,
			TimeIn:    sess.TimeIn,
			TimeOut:   sess.TimeOut,
			Hours:     round2(hours),
			IsLate:    sess.IsLate,
			Notes:     sess.Notes,
		})
	}

	totalHours = round2(totalHours)

	summary := DTRSummary{
		EmployeeID:         emp.ID.String(),
		EmployeeCode:       emp.EmployeeCode,
		FullName:           emp.FullName,
		Program:            emp.Program,
		StartDate:          start,
		EndDate:            end,
		TotalHours:         totalHours,
		RequiredHours:      emp.RequiredHours,
		HoursRemaining:     round2(float64(emp.RequiredHours) - totalHours),
		ProgressPercentage: progressPercentage(totalHours, emp.RequiredHours),
		SessionCount:       len(entries),
		Entries:            entries,
	}
	return summary, nil
}

// normalizeRange fills defaults: program start date when start is omitted,
// today in the deployment time zone when end is omitted.
func (s *service) normalizeRange(start, end string) (string, string, error) {
	if start == "" {
		start = s.policy.DefaultReportStart
	}
	if end == "" {
		end = s.policy.LocalDate(time.Now())
	}

	if _, err := time.Parse("2006-01-02", start); err != nil {
		return "", "", apperror.InvalidField("Start Date")
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return "", "", apperror.InvalidField("End Date")
	}
	if end < start {
		return "", "", apperror.New(apperror.CodeInvalidInput, "End Date is before Start Date", 400)
	}
	return start, end, nil
}

func (s *service) isWeekday(date string) bool {
	d, err := time.ParseInLocation("2006-01-02", date, s.policy.Location)
	if err != nil {
		return false
	}
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// sessionHours is the real-valued session length; zero while still open.
func sessionHours(sess *attendance.AttendanceSession) float64 {
	if sess.TimeOut == nil {
		return 0
	}
	return sess.TimeOut.Sub(sess.TimeIn).Hours()
}

// progressPercentage renders total/required as a fixed two-decimal string,
// or "N/A" when there is no meaningful target.
func progressPercentage(totalHours float64, requiredHours int) string {
	if requiredHours <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", totalHours/float64(requiredHours)*100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
