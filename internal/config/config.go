package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TapPolicy carries the tunables of the tap pipeline and reports. Values come
// from the environment with the defaults the readers were deployed with.
//
// The guard state built from this config is process-local and does not survive
// a restart; running multiple instances needs a shared backing store.
type TapPolicy struct {
	// Minimum interval between accepted taps for the same device+card pair.
	Cooldown time.Duration

	// Sliding-window cap on accepted tap requests per device.
	RateLimit  int
	RateWindow time.Duration

	// Minute-of-day thresholds, evaluated in Location.
	LateAfter  int // time-in later than this is flagged late
	LunchStart int // inclusive
	LunchEnd   int // inclusive

	// Default start date for DTR reports when the caller omits one.
	DefaultReportStart string

	// Deployment-local time zone; session dates are keyed on it, not UTC.
	Location *time.Location
}

func LoadTapPolicy() (TapPolicy, error) {
	cooldownMs := envInt("DEVICE_TAP_COOLDOWN", 10000)
	rateLimit := envInt("TAP_RATE_LIMIT", 100)
	rateWindowMs := envInt("TAP_RATE_WINDOW", 60000)

	lateAfter, err := parseMinuteOfDay(envString("LATE_THRESHOLD", "08:15"))
	if err != nil {
		return TapPolicy{}, fmt.Errorf("invalid LATE_THRESHOLD: %w", err)
	}
	lunchStart, err := parseMinuteOfDay(envString("LUNCH_WINDOW_START", "11:45"))
	if err != nil {
		return TapPolicy{}, fmt.Errorf("invalid LUNCH_WINDOW_START: %w", err)
	}
	lunchEnd, err := parseMinuteOfDay(envString("LUNCH_WINDOW_END", "12:30"))
	if err != nil {
		return TapPolicy{}, fmt.Errorf("invalid LUNCH_WINDOW_END: %w", err)
	}

	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return TapPolicy{}, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	return TapPolicy{
		Cooldown:           time.Duration(cooldownMs) * time.Millisecond,
		RateLimit:          rateLimit,
		RateWindow:         time.Duration(rateWindowMs) * time.Millisecond,
		LateAfter:          lateAfter,
		LunchStart:         lunchStart,
		LunchEnd:           lunchEnd,
		DefaultReportStart: envString("DEFAULT_REPORT_START", "2026-01-28"),
		Location:           loc,
	}, nil
}

// MinuteOfDay returns t's minute-of-day in the policy's time zone.
func (p TapPolicy) MinuteOfDay(t time.Time) int {
	local := t.In(p.Location)
	return local.Hour()*60 + local.Minute()
}

// LocalDate returns t's calendar date in the policy's time zone as YYYY-MM-DD.
func (p TapPolicy) LocalDate(t time.Time) string {
	return t.In(p.Location).Format("2006-01-02")
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
