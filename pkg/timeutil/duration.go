package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the history window used when none is given.
const DefaultWindow = "1w"

const day = 24 * time.Hour

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	windowUnits   = map[string]time.Duration{
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     day,
		"day":   day,
		"days":  day,
		"w":     7 * day,
		"wk":    7 * day,
		"wks":   7 * day,
		"week":  7 * day,
		"weeks": 7 * day,
	}
)

// Window is a lookback period ending now.
type Window struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
	Label string    `json:"label"`
}

// Contains reports whether ms falls inside the window.
func (w Window) Contains(ms int64) bool {
	t := time.UnixMilli(ms)
	return !t.Before(w.Since) && !t.After(w.Until)
}

// ParseWindow reads a lookback such as "1w", "3d" or "1w2d6h" and returns the
// window ending at now. Whole-day windows start at local midnight so "1d"
// means today.
func ParseWindow(input string, now time.Time) (Window, error) {
	d, err := parseLookback(input)
	if err != nil {
		return Window{}, err
	}
	w := Window{Until: now, Label: FormatWindow(d)}
	if d%day == 0 {
		w.Since = Midnight(now).AddDate(0, 0, 1-int(d/day))
	} else {
		w.Since = now.Add(-d)
	}
	return w, nil
}

func parseLookback(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}
	var total time.Duration
	for len(remaining) > 0 {
		m := windowPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := windowUnits[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("window must be greater than zero")
	}
	return total, nil
}

// FormatWindow renders d using w, d and h tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	var b strings.Builder
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}} {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.label)
			d -= n * u.size
		}
	}
	return b.String()
}
