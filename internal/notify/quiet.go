package notify

import (
	"fmt"
	"time"

	"github.com/cyberstack/hemu/internal/config"
)

// Quiet is the do-not-disturb window. While it is active, push
// notifications and the event script can be held back. Webhooks and
// history are never muted.
type Quiet struct {
	enabled bool
	start   int // seconds since midnight, inclusive
	end     int // seconds since midnight, inclusive
	days    map[time.Weekday]bool

	muteNotify bool
	muteScript bool
}

// NewQuiet parses cfg. Start and End are "HH:MM"; the end minute is
// included in full, so "23:59" runs to 23:59:59.
func NewQuiet(cfg config.QuietConfig) (Quiet, error) {
	q := Quiet{
		enabled:    cfg.Enabled,
		days:       cfg.Weekdays(),
		muteNotify: cfg.MutesNotify(),
		muteScript: cfg.MutesScript(),
	}
	if !cfg.Enabled {
		return q, nil
	}

	start, err := clock(cfg.Start)
	if err != nil {
		return Quiet{}, fmt.Errorf("quiet start: %w", err)
	}
	end, err := clock(cfg.End)
	if err != nil {
		return Quiet{}, fmt.Errorf("quiet end: %w", err)
	}
	q.start, q.end = start, end+59
	return q, nil
}

// Active reports whether now falls inside the window. When start is after
// end the window runs past midnight, and the weekday is checked against
// the day on which the window began.
func (q Quiet) Active(now time.Time) bool {
	if !q.enabled {
		return false
	}

	secs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if q.start <= q.end {
		return q.days[now.Weekday()] && secs >= q.start && secs <= q.end
	}

	if secs >= q.start {
		return q.days[now.Weekday()]
	}
	if secs <= q.end {
		return q.days[now.AddDate(0, 0, -1).Weekday()]
	}
	return false
}

// MutesNotify reports whether a push notification at now is held back.
func (q Quiet) MutesNotify(now time.Time) bool {
	return q.muteNotify && q.Active(now)
}

// MutesScript reports whether the event script at now is held back.
func (q Quiet) MutesScript(now time.Time) bool {
	return q.muteScript && q.Active(now)
}

func clock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}
