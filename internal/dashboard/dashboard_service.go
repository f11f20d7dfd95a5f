package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 10 * time.Second
	recentTaps    = 10
)

type RecentTap struct {
	SessionID    string     `json:"session_id"`
	EmployeeName string     `json:"employee_name"`
	EmployeeCode string     `json:"employee_code"`
	TimeIn       time.Time  `json:"time_in"`
	TimeOut      *time.Time `json:"time_out,omitempty"`
	IsLate       bool       `json:"is_late"`
}

// TodayStats is the live dashboard snapshot for the current local date.
type TodayStats struct {
	Date        string      `json:"date"`
	Total       int64       `json:"total"`
	Present     int64       `json:"present"`
	Absent      int64       `json:"absent"`
	CurrentlyIn int64       `json:"currently_in"`
	RecentTaps  []RecentTap `json:"recent_taps"`
}

type Service interface {
	TodayStats(ctx context.Context) (TodayStats, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	policy config.TapPolicy
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, policy config.TapPolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		policy: policy,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// TodayStats is polled by every open dashboard, so the snapshot is cached
// briefly and recomputed under singleflight.
func (s *service) TodayStats(ctx context.Context) (TodayStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats TodayStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	v, err, _ := s.sf.Do(statsCacheKey, func() (interface{}, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return TodayStats{}, err
	}
	return v.(TodayStats), nil
}

func (s *service) computeStats(ctx context.Context) (TodayStats, error) {
	date := s.policy.LocalDate(time.Now())

	total, err := s.repo.CountActiveEmployees(ctx)
	if err != nil {
		return TodayStats{}, s.storeErr(err)
	}
	present, err := s.repo.CountPresent(ctx, date)
	if err != nil {
		return TodayStats{}, s.storeErr(err)
	}
	currentlyIn, err := s.repo.CountCurrentlyIn(ctx, date)
	if err != nil {
		return TodayStats{}, s.storeErr(err)
	}
	sessions, err := s.repo.RecentSessions(ctx, date, recentTaps)
	if err != nil {
		return TodayStats{}, s.storeErr(err)
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}

	stats := TodayStats{
		Date:        date,
		Total:       total,
		Present:     present,
		Absent:      absent,
		CurrentlyIn: currentlyIn,
		RecentTaps:  mapRecentTaps(sessions),
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("cache dashboard stats failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *service) storeErr(err error) error {
	s.logger.Error("dashboard query failed", zap.Error(err))
	return apperror.Wrap(err, apperror.CodeServiceUnavailable, "Dashboard store unavailable", http.StatusServiceUnavailable)
}

func mapRecentTaps(sessions []attendance.AttendanceSession) []RecentTap {
	taps := make([]RecentTap, 0, len(sessions))
	for _, sess := range sessions {
		tap := RecentTap{
			SessionID: sess.ID.String(),
			TimeIn:    sess.TimeIn,
			TimeOut:   sess.TimeOut,
			IsLate:    sess.IsLate,
		}
		if sess.Employee != nil {
			tap.EmployeeName = sess.Employee.FullName
			tap.EmployeeCode = sess.Employee.EmployeeCode
		}
		taps = append(taps, tap)
	}
	return taps
}
