package entry

import (
	"encoding/json"
	"testing"
)

func TestCaloriesValue(t *testing.T) {
	cases := []struct {
		in   Calories
		want int
	}{
		{"300", 300},
		{"", 0},
		{"abc", 0},
		{"12abc", 12},
		{" 450 ", 450},
		{"12.7", 12},
	}
	for _, tc := range cases {
		if got := tc.in.Value(); got != tc.want {
			t.Fatalf("Calories(%q).Value(): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestCaloriesValidate(t *testing.T) {
	for _, ok := range []Calories{"", "0", "450"} {
		if err := ok.Validate(); err != nil {
			t.Fatalf("expected %q to be valid: %v", ok, err)
		}
	}
	for _, bad := range []Calories{"-1", "lots", "1.5"} {
		if err := bad.Validate(); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestFoodEntryDecodesNumericAndMissingCalories(t *testing.T) {
	raw := `[{"id":1,"name":"eggs","cal":300,"cat":"Breakfast","ts":1},
		{"id":2,"name":"tea","cal":"","cat":"Drink","ts":2},
		{"id":3,"name":"soup","cat":"Lunch","ts":3},
		{"id":4,"name":"nuts","cal":null,"cat":"Snack","ts":4}]`
	var list []FoodEntry
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []int{300, 0, 0, 0}
	for i, e := range list {
		if e.Cal.Value() != want[i] {
			t.Fatalf("entry %d: expected %d calories, got %d", i, want[i], e.Cal.Value())
		}
	}
}

func TestFastingSessionKeyFallsBackToStart(t *testing.T) {
	s := FastingSession{Start: 42}
	if s.Key() != 42 {
		t.Fatalf("expected start as key, got %d", s.Key())
	}
	s.ID = 7
	if s.Key() != 7 {
		t.Fatalf("expected id as key, got %d", s.Key())
	}
}

func TestGoalReachedIsInclusive(t *testing.T) {
	s := FastingSession{Protocol: 16, Duration: 16 * HourMillis}
	if !s.GoalReached() {
		t.Fatalf("expected goal reached at exactly 16h")
	}
	s.Duration--
	if s.GoalReached() {
		t.Fatalf("expected goal missed one millisecond short")
	}
}

func TestActiveFastComplete(t *testing.T) {
	a := ActiveFast{Start: 1000, Protocol: 18}
	s := a.Complete(1000 + 5*HourMillis)
	if s.ID != 1000 || s.Duration != s.End-s.Start || s.Protocol != 18 {
		t.Fatalf("unexpected completed session: %+v", s)
	}
}

func TestParseProtocol(t *testing.T) {
	cases := map[string]int{"16:8": 16, "omad": 23, "20:4": 20, "14": 14, "36h": 36}
	for in, want := range cases {
		got, err := ParseProtocol(in)
		if err != nil || got != want {
			t.Fatalf("ParseProtocol(%q): expected %d, got %d (%v)", in, want, got, err)
		}
	}
	if _, err := ParseProtocol("zero"); err == nil {
		t.Fatalf("expected error for unknown protocol")
	}
}

func TestParseCategoryAcceptsLegacyLabels(t *testing.T) {
	got, err := ParseCategory("🍎 Snack")
	if err != nil || got != Snack {
		t.Fatalf("expected Snack, got %q (%v)", got, err)
	}
	if got, _ := ParseCategory(""); got != DefaultCategory {
		t.Fatalf("expected default category, got %q", got)
	}
}
