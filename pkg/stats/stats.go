// Package stats derives daily and weekly rollups from a store snapshot.
//
// Everything here is a pure function of its inputs. Nothing is cached; callers
// recompute on every view.
package stats

import (
	"math"
	"time"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

// DaysPerWeek is the number of buckets in a Series.
const DaysPerWeek = 7

func local(ms int64, now time.Time) time.Time {
	return timeutil.FromMillis(ms, now.Location())
}

// TodayFood returns the food entries logged on now's calendar date.
func TodayFood(food []entry.FoodEntry, now time.Time) []entry.FoodEntry {
	var out []entry.FoodEntry
	for _, f := range food {
		if timeutil.SameDay(local(f.TS, now), now) {
			out = append(out, f)
		}
	}
	return out
}

// TodayWater returns the water entries logged on now's calendar date.
func TodayWater(water []entry.WaterEntry, now time.Time) []entry.WaterEntry {
	var out []entry.WaterEntry
	for _, w := range water {
		if timeutil.SameDay(local(w.TS, now), now) {
			out = append(out, w)
		}
	}
	return out
}

// TodayCalories sums today's calories. Missing or non-numeric values count
// as zero.
func TodayCalories(food []entry.FoodEntry, now time.Time) int {
	total := 0
	for _, f := range TodayFood(food, now) {
		total += f.Cal.Value()
	}
	return total
}

// TodayWaterOz sums today's water in fluid ounces.
func TodayWaterOz(water []entry.WaterEntry, now time.Time) float64 {
	total := 0.0
	for _, w := range TodayWater(water, now) {
		total += w.Amount
	}
	return total
}

// HydrationPercent is oz as a percentage of goal, clamped to 100.
func HydrationPercent(oz, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(oz/goal*100, 100)
}

// WeekStart returns local midnight of the Sunday on or before now.
func WeekStart(now time.Time) time.Time {
	return timeutil.Midnight(now).AddDate(0, 0, -int(now.Weekday()))
}

// Series is a Sunday-first weekly rollup.
type Series struct {
	Start      time.Time            `json:"start"`
	Values     [DaysPerWeek]float64 `json:"values"`
	Counts     [DaysPerWeek]int     `json:"counts"`
	TodayIndex int                  `json:"todayIndex"`
}

func newSeries(now time.Time) Series {
	start := WeekStart(now)
	return Series{Start: start, TodayIndex: timeutil.DaysBetween(start, now)}
}

// add buckets v by the calendar date of t; dates outside the week are dropped.
func (s *Series) add(t time.Time, v float64) {
	i := timeutil.DaysBetween(s.Start, t)
	if i < 0 || i >= DaysPerWeek {
		return
	}
	s.Values[i] += v
	s.Counts[i]++
}

// Best is the largest bucket value.
func (s Series) Best() float64 {
	return s.Values[s.BestIndex()]
}

// BestIndex is the first bucket holding the largest value.
func (s Series) BestIndex() int {
	best := 0
	for i, v := range s.Values {
		if v > s.Values[best] {
			best = i
		}
	}
	return best
}

// Total sums every bucket.
func (s Series) Total() float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// Average is Total spread over the whole week, including days still ahead.
func (s Series) Average() float64 {
	return s.Total() / DaysPerWeek
}

// Today is the value of today's bucket.
func (s Series) Today() float64 {
	return s.Values[s.TodayIndex]
}

// Empty reports whether nothing contributed to bucket i.
func (s Series) Empty(i int) bool {
	return s.Counts[i] == 0
}

// FastingWeek buckets session durations, in hours, by the date of their start.
func FastingWeek(sessions []entry.FastingSession, now time.Time) Series {
	s := newSeries(now)
	for _, f := range sessions {
		s.add(local(f.Start, now), float64(f.Duration)/float64(entry.HourMillis))
	}
	return s
}

// WaterWeek buckets water amounts by the date they were logged.
func WaterWeek(water []entry.WaterEntry, now time.Time) Series {
	s := newSeries(now)
	for _, w := range water {
		s.add(local(w.TS, now), w.Amount)
	}
	return s
}

// Summary holds whole-log counts.
type Summary struct {
	TotalFasts int `json:"totalFasts"`
	// AvgDuration is meaningful only when HasAverage is set.
	AvgDuration time.Duration `json:"avgDuration"`
	HasAverage  bool          `json:"hasAverage"`
	FoodEntries int           `json:"foodEntries"`
	WaterLogs   int           `json:"waterLogs"`
}

// Summarize counts the logs and averages fasting durations.
func Summarize(snap store.Snapshot) Summary {
	sum := Summary{
		TotalFasts:  len(snap.Fasting),
		FoodEntries: len(snap.Food),
		WaterLogs:   len(snap.Water),
	}
	if len(snap.Fasting) > 0 {
		var total int64
		for _, f := range snap.Fasting {
			total += f.Duration
		}
		sum.AvgDuration = time.Duration(total/int64(len(snap.Fasting))) * time.Millisecond
		sum.HasAverage = true
	}
	return sum
}

// Dashboard bundles every rollup shown for now.
type Dashboard struct {
	Now               time.Time `json:"now"`
	TodayCalories     int       `json:"todayCalories"`
	TodayFoodCount    int       `json:"todayFoodCount"`
	TodayWaterOz      float64   `json:"todayWaterOz"`
	WaterGoal         float64   `json:"waterGoal"`
	HydrationPercent  float64   `json:"hydrationPercent"`
	WaterGoalMetToday bool      `json:"waterGoalMetToday"`
	FastingWeek       Series    `json:"fastingWeek"`
	WaterWeek         Series    `json:"waterWeek"`
	Summary           Summary   `json:"summary"`
}

// Compute derives the Dashboard for snap at now.
func Compute(snap store.Snapshot, now time.Time) Dashboard {
	oz := TodayWaterOz(snap.Water, now)
	return Dashboard{
		Now:               now,
		TodayCalories:     TodayCalories(snap.Food, now),
		TodayFoodCount:    len(TodayFood(snap.Food, now)),
		TodayWaterOz:      oz,
		WaterGoal:         snap.WaterGoal,
		HydrationPercent:  HydrationPercent(oz, snap.WaterGoal),
		WaterGoalMetToday: snap.WaterGoal > 0 && oz >= snap.WaterGoal,
		FastingWeek:       FastingWeek(snap.Fasting, now),
		WaterWeek:         WaterWeek(snap.Water, now),
		Summary:           Summarize(snap),
	}
}
