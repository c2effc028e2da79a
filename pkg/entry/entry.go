// Package entry defines the records kept in the fasting, food and water logs.
package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HourMillis is one hour in epoch milliseconds.
const HourMillis int64 = 3600000

// FastingSession is a completed fast. ID equals Start at creation and is
// kept when Start is later edited.
type FastingSession struct {
	ID       int64 `json:"id,omitempty"`
	Start    int64 `json:"start"`
	End      int64 `json:"end,omitempty"`
	Duration int64 `json:"duration,omitempty"`
	Protocol int   `json:"protocol"`
}

// Key identifies the session for deletion. Older records may lack an id, in
// which case the start instant stands in for it.
func (f FastingSession) Key() int64 {
	if f.ID != 0 {
		return f.ID
	}
	return f.Start
}

// Goal returns the protocol target in milliseconds.
func (f FastingSession) Goal() int64 {
	return int64(f.Protocol) * HourMillis
}

// GoalReached reports whether the recorded duration met the protocol target.
// The boundary is inclusive.
func (f FastingSession) GoalReached() bool {
	return f.Protocol > 0 && f.Duration >= f.Goal()
}

// PercentOfGoal is the unclamped duration as a percentage of the target.
func (f FastingSession) PercentOfGoal() float64 {
	if f.Protocol <= 0 {
		return 0
	}
	return float64(f.Duration) / float64(f.Goal()) * 100
}

// Elapsed returns the recorded duration.
func (f FastingSession) Elapsed() time.Duration {
	return time.Duration(f.Duration) * time.Millisecond
}

// ActiveFast is the in-progress session singleton.
type ActiveFast struct {
	Start    int64 `json:"start"`
	Protocol int   `json:"protocol"`
}

// Goal returns the protocol target in milliseconds.
func (a ActiveFast) Goal() int64 {
	return int64(a.Protocol) * HourMillis
}

// Complete turns the active fast into a finished session ending at end.
func (a ActiveFast) Complete(end int64) FastingSession {
	return FastingSession{
		ID:       a.Start,
		Start:    a.Start,
		End:      end,
		Duration: end - a.Start,
		Protocol: a.Protocol,
	}
}

// FoodEntry is one logged meal or drink.
type FoodEntry struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Cal  Calories `json:"cal"`
	Cat  string   `json:"cat"`
	Note string   `json:"note"`
	TS   int64    `json:"ts"`
}

// WaterEntry is one logged drink of water in fluid ounces.
type WaterEntry struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
	TS     int64   `json:"ts"`
}

// Calories is kept as entered: a numeric string or empty.
type Calories string

// Value parses the leading integer of c. Missing or non-numeric values count
// as zero.
func (c Calories) Value() int {
	s := strings.TrimSpace(string(c))
	end := 0
	for end < len(s) {
		ch := s[end]
		if ch >= '0' && ch <= '9' || (end == 0 && (ch == '-' || ch == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Validate accepts an empty value or a non-negative integer.
func (c Calories) Validate() error {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("calories must be a non-negative integer, got %q", s)
	}
	return nil
}

// UnmarshalJSON accepts a string, a number or null.
func (c *Calories) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*c = ""
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*c = Calories(s)
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("calories: %w", err)
		}
		*c = Calories(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}
