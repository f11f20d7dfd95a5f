package dtr

import (
	"context"
	"testing"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/employee"
	employeeerrors "github.com/gwenythashlie/gadc-attendance-system/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSessionRepo struct {
	byEmployee map[string][]attendance.AttendanceSession
}

func (f *fakeSessionRepo) ListByEmployeeAndRange(_ context.Context, employeeID, start, end string) ([]attendance.AttendanceSession, error) {
	var out []attendance.AttendanceSession
	for _, s := range f.byEmployee[employeeID] {
		if s.Date >= start && s.Date <= end {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	byID   map[string]*employee.Employee
	active []employee.Employee
}

func (f *fakeEmployees) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployees) FindAllActive(_ context.Context) ([]employee.Employee, error) {
	return f.active, nil
}

func testPolicy() config.TapPolicy {
	return config.TapPolicy{
		DefaultReportStart: "2026-01-28",
		Location:           time.UTC,
	}
}

// closedSession builds a closed session on date lasting the given hours.
func closedSession(empID uuid.UUID, date string, hours float64) attendance.AttendanceSession {
	day, _ := time.Parse("2006-01-02", date)
	in := day.Add(8 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return attendance.AttendanceSession{
		ID:         uuid.New(),
		EmployeeID: empID,
		Date:       date,
		TimeIn:     in,
		TimeOut:    &out,
	}
}

func TestSummarize(t *testing.T) {
	empID := uuid.New()
	emp := &employee.Employee{
		ID:            empID,
		EmployeeCode:  "GADC-0001",
		FullName:      "Gwenyth Ashlie",
		Program:       employee.ProgramCpE,
		RequiredHours: 320,
		Status:        employee.StatusActive,
	}

	t.Run("weekday hours count, weekend hours do not", func(t *testing.T) {
		// 2026-02-02 is a Monday, 2026-02-07 a Saturday.
		sessions := []attendance.AttendanceSession{
			closedSession(empID, "2026-02-02", 8),
			closedSession(empID, "2026-02-03", 8),
			closedSession(empID, "2026-02-04", 8),
			closedSession(empID, "2026-02-05", 8),
			closedSession(empID, "2026-02-06", 8),
			closedSession(empID, "2026-02-07", 8),
		}
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{empID.String(): sessions}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{empID.String(): emp}}

		svc := NewService(repo, emps, testPolicy())

		summary, err := svc.Summarize(context.Background(), empID.String(), "2026-02-02", "2026-02-08")
		require.NoError(t, err)

		assert.Equal(t, 40.0, summary.TotalHours)
		assert.Equal(t, 5, summary.SessionCount)
		assert.Equal(t, 280.0, summary.HoursRemaining)
		assert.Equal(t, "12.50", summary.ProgressPercentage)
		assert.Len(t, summary.Entries, 5)
	})

	t.Run("open sessions contribute zero hours", func(t *testing.T) {
		open := closedSession(empID, "2026-02-02", 8)
		open.TimeOut = nil
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{empID.String(): {open}}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{empID.String(): emp}}

		svc := NewService(repo, emps, testPolicy())

		summary, err := svc.Summarize(context.Background(), empID.String(), "2026-02-02", "2026-02-02")
		require.NoError(t, err)
		assert.Equal(t, 0.0, summary.TotalHours)
		assert.Equal(t, 1, summary.SessionCount)
	})

	t.Run("hours remaining goes negative once exceeded", func(t *testing.T) {
		short := *emp
		short.RequiredHours = 10
		sessions := []attendance.AttendanceSession{
			closedSession(empID, "2026-02-02", 8),
			closedSession(empID, "2026-02-03", 8),
		}
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{empID.String(): sessions}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{empID.String(): &short}}

		svc := NewService(repo, emps, testPolicy())

		summary, err := svc.Summarize(context.Background(), empID.String(), "2026-02-02", "2026-02-03")
		require.NoError(t, err)
		assert.Equal(t, -6.0, summary.HoursRemaining)
		assert.Equal(t, "160.00", summary.ProgressPercentage)
	})

	t.Run("zero required hours yields N/A instead of a crash", func(t *testing.T) {
		zero := *emp
		zero.RequiredHours = 0
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{empID.String(): &zero}}

		svc := NewService(repo, emps, testPolicy())

		summary, err := svc.Summarize(context.Background(), empID.String(), "2026-02-02", "2026-02-03")
		require.NoError(t, err)
		assert.Equal(t, "N/A", summary.ProgressPercentage)
	})

	t.Run("unknown employee", func(t *testing.T) {
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{}}

		svc := NewService(repo, emps, testPolicy())

		_, err := svc.Summarize(context.Background(), uuid.New().String(), "2026-02-02", "2026-02-03")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("range validation", func(t *testing.T) {
		repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{}}
		emps := &fakeEmployees{byID: map[string]*employee.Employee{empID.String(): emp}}

		svc := NewService(repo, emps, testPolicy())

		_, err := svc.Summarize(context.Background(), empID.String(), "02/02/2026", "2026-02-03")
		assert.Error(t, err)

		_, err = svc.Summarize(context.Background(), empID.String(), "2026-02-05", "2026-02-03")
		assert.Error(t, err)
	})
}

func TestSummarizeAll(t *testing.T) {
	a := employee.Employee{ID: uuid.New(), EmployeeCode: "GADC-0001", FullName: "Ana Reyes", Program: employee.ProgramCpE, RequiredHours: 320, Status: employee.StatusActive}
	b := employee.Employee{ID: uuid.New(), EmployeeCode: "GADC-0002", FullName: "Ben Cruz", Program: employee.ProgramIT, RequiredHours: 500, Status: employee.StatusActive}

	repo := &fakeSessionRepo{byEmployee: map[string][]attendance.AttendanceSession{
		a.ID.String(): {closedSession(a.ID, "2026-02-02", 8)},
		b.ID.String(): {closedSession(b.ID, "2026-02-02", 4)},
	}}
	emps := &fakeEmployees{active: []employee.Employee{a, b}}

	svc := NewService(repo, emps, testPolicy())

	summaries, err := svc.SummarizeAll(context.Background(), "2026-02-02", "2026-02-06")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Ana Reyes", summaries[0].FullName)
	assert.Equal(t, 8.0, summaries[0].TotalHours)
	assert.Equal(t, "Ben Cruz", summaries[1].FullName)
	assert.Equal(t, 4.0, summaries[1].TotalHours)
	assert.Equal(t, "0.80", summaries[1].ProgressPercentage)
}
