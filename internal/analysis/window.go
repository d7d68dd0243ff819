package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"renewable-surplus/internal/model"
)

// Window selects instants by time of day. Name is shown to API clients as
// the filter that was applied.
type Window interface {
	Name() string
	Contains(t time.Time) bool
}

// NightWindow is 22:00 to 06:00 UTC.
type NightWindow struct{}

func (NightWindow) Name() string { return "Night hours (22:00-06:00)" }

func (NightWindow) Contains(t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= 22 || hour < 6
}

// DailyWindow is [Start, End) on a 24h UTC clock, in minutes after midnight.
// Start > End wraps across midnight; Start == End is empty.
type DailyWindow struct {
	StartMins int
	EndMins   int
}

// ParseDailyWindow builds a window from two "HH:MM" strings.
func ParseDailyWindow(start, end string) (DailyWindow, error) {
	s, err := parseHHMM(start)
	if err != nil {
		return DailyWindow{}, err
	}
	e, err := parseHHMM(end)
	if err != nil {
		return DailyWindow{}, err
	}
	return DailyWindow{StartMins: s, EndMins: e}, nil
}

func (w DailyWindow) Name() string {
	return fmt.Sprintf("Daily window (%s-%s)", fmtHHMM(w.StartMins), fmtHHMM(w.EndMins))
}

func (w DailyWindow) Contains(t time.Time) bool {
	t = t.UTC()
	return inWindow(t.Hour()*60+t.Minute(), w.StartMins, w.EndMins)
}

func FilterWindow(points []model.SurplusPoint, w Window) []model.SurplusPoint {
	out := make([]model.SurplusPoint, 0, len(points))
	for _, p := range points {
		if w.Contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, ok := clockField(parts[0])
	if !ok || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, ok := clockField(parts[1])
	if !ok || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// clockField accepts one or two ASCII digits.
func clockField(s string) (int, bool) {
	if len(s) < 1 || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func fmtHHMM(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// A wrapping window is the union of [start, 24:00) and [00:00, end).
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
