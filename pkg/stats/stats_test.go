package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/store"
)

// Thursday.
var now = time.Date(2024, 3, 7, 18, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, h int) int64 {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC).UnixMilli()
}

func session(start int64, hours int64, protocol int) entry.FastingSession {
	return entry.FastingSession{
		ID:       start,
		Start:    start,
		End:      start + hours*entry.HourMillis,
		Duration: hours * entry.HourMillis,
		Protocol: protocol,
	}
}

func TestWeekStartIsSunday(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), WeekStart(now))
	sunday := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
}

func TestFastingWeek(t *testing.T) {
	sessions := []entry.FastingSession{
		session(at(2024, 3, 6, 1), 18, 18),  // Wednesday
		session(at(2024, 3, 4, 2), 16, 16),  // Monday
		session(at(2024, 3, 2, 20), 20, 20), // previous Saturday
	}
	s := FastingWeek(sessions, now)

	assert.Equal(t, [7]float64{0, 16, 0, 18, 0, 0, 0}, s.Values)
	assert.Equal(t, 18.0, s.Best())
	assert.Equal(t, 3, s.BestIndex())
	assert.InDelta(t, 4.857, s.Average(), 0.001)
	assert.Equal(t, 4, s.TodayIndex)
	assert.Equal(t, 0.0, s.Today())
	assert.Equal(t, 34.0, s.Total())
	assert.True(t, s.Empty(0))
	assert.False(t, s.Empty(1))
}

func TestFastingWeekEmpty(t *testing.T) {
	s := FastingWeek(nil, now)
	assert.Equal(t, 0.0, s.Best())
	assert.Equal(t, 0.0, s.Average())
	for i := range DaysPerWeek {
		assert.True(t, s.Empty(i))
	}
}

func TestMeasuredZeroIsNotEmpty(t *testing.T) {
	zero := entry.FastingSession{Start: at(2024, 3, 5, 8), End: at(2024, 3, 5, 8), Protocol: 16}
	s := FastingWeek([]entry.FastingSession{zero}, now)
	assert.Equal(t, 0.0, s.Values[2])
	assert.False(t, s.Empty(2))
}

func TestWaterWeek(t *testing.T) {
	water := []entry.WaterEntry{
		{ID: 1, Amount: 16, TS: at(2024, 3, 7, 9)},
		{ID: 2, Amount: 8, TS: at(2024, 3, 7, 7)},
		{ID: 3, Amount: 24, TS: at(2024, 3, 3, 12)},
		{ID: 4, Amount: 100, TS: at(2024, 3, 10, 12)}, // next week
	}
	s := WaterWeek(water, now)
	assert.Equal(t, [7]float64{24, 0, 0, 0, 24, 0, 0}, s.Values)
	assert.Equal(t, 24.0, s.Today())
	assert.Equal(t, 0, s.BestIndex())
	assert.Equal(t, 2, s.Counts[4])
}

func TestWeekBucketsAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}
	// DST began Sunday 2024-03-10.
	wed := time.Date(2024, 3, 13, 12, 0, 0, 0, ny)
	late := time.Date(2024, 3, 11, 23, 30, 0, 0, ny).UnixMilli()
	s := WaterWeek([]entry.WaterEntry{{ID: 1, Amount: 8, TS: late}}, wed)
	assert.Equal(t, 8.0, s.Values[1])
	assert.Equal(t, 3, s.TodayIndex)
}

func TestTodayCaloriesTreatsMissingAsZero(t *testing.T) {
	var food []entry.FoodEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "name": "a", "cal": "300", "ts": 1709830800000},
		{"id": 2, "name": "b", "cal": "", "ts": 1709830800000},
		{"id": 3, "name": "c", "cal": 450, "ts": 1709830800000},
		{"id": 4, "name": "d", "ts": 1709830800000},
		{"id": 5, "name": "yesterday", "cal": "999", "ts": 1709744400000}
	]`), &food))

	assert.Equal(t, 750, TodayCalories(food, now))
	assert.Len(t, TodayFood(food, now), 4)
}

func TestHydrationPercent(t *testing.T) {
	assert.Equal(t, 50.0, HydrationPercent(32, 64))
	assert.Equal(t, 100.0, HydrationPercent(96, 64))
	assert.Equal(t, 0.0, HydrationPercent(32, 0))
}

func TestSummarize(t *testing.T) {
	snap := store.Snapshot{
		Fasting: []entry.FastingSession{session(0, 16, 16), session(0, 18, 18)},
		Food:    []entry.FoodEntry{{ID: 1}},
	}
	sum := Summarize(snap)
	assert.Equal(t, 2, sum.TotalFasts)
	assert.True(t, sum.HasAverage)
	assert.Equal(t, 17*time.Hour, sum.AvgDuration)
	assert.Equal(t, 1, sum.FoodEntries)
	assert.Equal(t, 0, sum.WaterLogs)

	assert.False(t, Summarize(store.Snapshot{}).HasAverage)
}

func TestCompute(t *testing.T) {
	snap := store.Snapshot{
		Water: []entry.WaterEntry{
			{ID: 1, Amount: 40, TS: at(2024, 3, 7, 9)},
			{ID: 2, Amount: 30, TS: at(2024, 3, 7, 12)},
		},
		Food:      []entry.FoodEntry{{ID: 1, Cal: "120", TS: at(2024, 3, 7, 8)}},
		WaterGoal: 64,
	}
	d := Compute(snap, now)
	assert.Equal(t, 70.0, d.TodayWaterOz)
	assert.Equal(t, 100.0, d.HydrationPercent)
	assert.True(t, d.WaterGoalMetToday)
	assert.Equal(t, 120, d.TodayCalories)
	assert.Equal(t, 1, d.TodayFoodCount)
	assert.Equal(t, 70.0, d.WaterWeek.Today())

	snap.WaterGoal = 128
	assert.False(t, Compute(snap, now).WaterGoalMetToday)
}
