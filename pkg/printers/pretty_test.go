package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/stats"
)

func newPrinter(t *testing.T) (*PrettyPrint, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var buf bytes.Buffer
	return &PrettyPrint{Out: &buf, Location: time.UTC}, &buf
}

func TestBar(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░"},
		{50, "██░░"},
		{100, "████"},
		{250, "████"},
		{-5, "░░░░"},
	}
	for _, tc := range cases {
		if got := Bar(tc.pct, 4); got != tc.want {
			t.Errorf("Bar(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestWeekChartMarksEmptyDays(t *testing.T) {
	pp, buf := newPrinter(t)
	s := stats.Series{TodayIndex: 3}
	s.Values[1], s.Counts[1] = 16, 1
	s.Values[3], s.Counts[3] = 18, 1
	s.Counts[5] = 1

	pp.WeekChart("Fasting", s, "h")
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 9 {
		t.Fatalf("expected a line per day, got:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[1], "·") {
		t.Errorf("expected Sunday to be empty, got %q", lines[1])
	}
	if !strings.Contains(lines[4], strings.Repeat(barFull, barWidth)+" 18.0h") {
		t.Errorf("expected Wednesday full bar, got %q", lines[4])
	}
	if !strings.Contains(lines[6], strings.Repeat(barEmpty, barWidth)+" 0.0h") {
		t.Errorf("expected measured zero on Friday, got %q", lines[6])
	}
	if !strings.Contains(lines[8], "best 18.0h") || !strings.Contains(lines[8], "avg 4.9h") {
		t.Errorf("unexpected footer %q", lines[8])
	}
}

func TestFastLog(t *testing.T) {
	pp, buf := newPrinter(t)
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC).UnixMilli()
	pp.FastLog(
		entry.FastingSession{ID: start, Start: start, End: start + 16*entry.HourMillis, Duration: 16 * entry.HourMillis, Protocol: 16},
		entry.FastingSession{ID: 1, Start: start, End: start + 9*entry.HourMillis, Duration: 9 * entry.HourMillis, Protocol: 18},
	)
	out := buf.String()
	for _, want := range []string{"Jan 1, 2024 08:00 PM", "16:00:00", "16:8", "reached", "18:6", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFoodLogWrapsNotes(t *testing.T) {
	pp, buf := newPrinter(t)
	note := strings.Repeat("word ", 30)
	pp.FoodLog(entry.FoodEntry{ID: 1, Name: "oats", Cat: entry.Breakfast, Note: note})
	out := buf.String()
	if !strings.Contains(out, "[0] word") {
		t.Fatalf("expected note, got:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[0]") || strings.HasPrefix(line, "word") {
			if len(line) > noteWidth {
				t.Errorf("note line longer than %d: %q", noteWidth, line)
			}
		}
	}
}

func TestEmptyLogs(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.WaterLog()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none, got %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Progress(fasting.Progress{})
	if !strings.Contains(buf.String(), "not fasting") {
		t.Fatalf("unexpected idle output %q", buf.String())
	}

	buf.Reset()
	pp.Progress(fasting.Progress{Active: true, Protocol: 16, Elapsed: 4 * time.Hour, Remaining: 12 * time.Hour, Percent: 25})
	out := buf.String()
	for _, want := range []string{"16:8", "25%", "elapsed 04:00:00", "remaining 12:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
