package attendance

import (
	"strings"
	"sync"
	"time"
)

// CooldownGuard suppresses duplicate physical reads: a card held against a
// reader produces a burst of taps, and only the first within the window may
// pass. Keyed per device+card, so the same card on a second reader is not
// suppressed. State is process-local and lost on restart.
type CooldownGuard struct {
	mu      sync.Mutex
	window  time.Duration
	lastTap map[string]time.Time
}

func NewCooldownGuard(window time.Duration) *CooldownGuard {
	return &CooldownGuard{
		window:  window,
		lastTap: make(map[string]time.Time),
	}
}

// Allow reports whether a tap for this device+card pair may proceed, and on
// success records now as the new last-accepted instant. Check and record are
// one step under the lock so near-simultaneous duplicates cannot both pass.
func (g *CooldownGuard) Allow(deviceID, badgeUID string, now time.Time) bool {
	key := deviceID + "_" + strings.ToUpper(badgeUID)

	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.lastTap[key]; ok && now.Sub(last) < g.window {
		return false
	}

	g.lastTap[key] = now
	return true
}

// DeviceRateLimiter caps accepted tap requests per device over a trailing
// window, protecting against a malfunctioning reader flooding the endpoint.
// Independent of the cooldown guard. State is process-local.
type DeviceRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	taps   map[string][]time.Time
}

func NewDeviceRateLimiter(limit int, window time.Duration) *DeviceRateLimiter {
	return &DeviceRateLimiter{
		window: window,
		limit:  limit,
		taps:   make(map[string][]time.Time),
	}
}

func (l *DeviceRateLimiter) Allow(deviceID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Prune entries that fell out of the window so state stays bounded
	recent := l.taps[deviceID][:0]
	for _, t := range l.taps[deviceID] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.taps[deviceID] = recent
		return false
	}

	l.taps[deviceID] = append(recent, now)
	return true
}
