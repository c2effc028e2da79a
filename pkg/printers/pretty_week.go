package printers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/stats"
	"tableflip.dev/fastlog/pkg/timeutil"
)

const (
	barWidth = 30
	barFull  = "█"
	barEmpty = "░"
)

var weekdays = [stats.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Bar renders pct (0..100) as a width-wide bar.
func Bar(pct float64, width int) string {
	pct = math.Max(0, math.Min(pct, 100))
	filled := int(math.Round(pct / 100 * float64(width)))
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// Progress prints the in-progress fast.
func (pp *PrettyPrint) Progress(p fasting.Progress) {
	if !p.Active {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(pp.out(), " not fasting")
		return
	}
	bar := color.New(color.FgCyan)
	if p.GoalReached {
		bar = color.New(color.FgGreen, color.Bold)
	}
	_, _ = fmt.Fprintf(pp.out(), " %s fast since %s\n", entry.ProtocolLabel(p.Protocol), pp.when(p.Start))
	_, _ = fmt.Fprintf(pp.out(), " %s %3.0f%%\n", bar.Sprint(Bar(p.Percent, barWidth)), p.Percent)
	_, _ = fmt.Fprintf(pp.out(), " elapsed %s", timeutil.FormatClock(p.Elapsed))
	if p.GoalReached {
		_, _ = color.New(color.FgGreen).Fprintln(pp.out(), "  goal reached")
	} else {
		_, _ = fmt.Fprintf(pp.out(), "  remaining %s\n", timeutil.FormatClock(p.Remaining))
	}
}

// WeekChart prints a Sunday-first bar chart of s. Days with no entries are
// drawn as a dot, days with a measured zero as an empty bar.
func (pp *PrettyPrint) WeekChart(title string, s stats.Series, unit string) {
	pp.Title(title)
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)
	plain := color.New()

	scale := s.Best()
	for i := range stats.DaysPerWeek {
		label := plain
		if i == s.TodayIndex {
			label = bold
		}
		_, _ = label.Fprintf(pp.out(), " %s ", weekdays[i])
		if s.Empty(i) {
			_, _ = faint.Fprintln(pp.out(), "·")
			continue
		}
		pct := 0.0
		if scale > 0 {
			pct = s.Values[i] / scale * 100
		}
		_, _ = fmt.Fprintf(pp.out(), "%s %.1f%s\n", Bar(pct, barWidth), s.Values[i], unit)
	}
	_, _ = faint.Fprintf(pp.out(), " best %.1f%s  avg %.1f%s  today %.1f%s\n",
		s.Best(), unit, s.Average(), unit, s.Today(), unit)
	pp.NewLine()
}

// Dashboard prints today's totals, both weekly charts and the summary.
func (pp *PrettyPrint) Dashboard(d stats.Dashboard) {
	pp.Title("Today")
	_, _ = fmt.Fprintf(pp.out(), " calories  %d (%d meals)\n", d.TodayCalories, d.TodayFoodCount)
	_, _ = fmt.Fprintf(pp.out(), " water     %s of %s  %s %3.0f%%",
		FormatOunces(d.TodayWaterOz), FormatOunces(d.WaterGoal),
		color.New(color.FgBlue).Sprint(Bar(d.HydrationPercent, barWidth/2)), d.HydrationPercent)
	if d.WaterGoalMetToday {
		_, _ = color.New(color.FgGreen).Fprint(pp.out(), "  goal met")
	}
	pp.NewLine()
	pp.NewLine()

	pp.WeekChart("Fasting this week", d.FastingWeek, "h")
	pp.WeekChart("Water this week", d.WaterWeek, "oz")

	pp.Title("All time")
	avg := "-"
	if d.Summary.HasAverage {
		avg = timeutil.FormatClock(d.Summary.AvgDuration)
	}
	_, _ = fmt.Fprintf(pp.out(), " fasts %d  avg %s  meals %d  drinks %d\n",
		d.Summary.TotalFasts, avg, d.Summary.FoodEntries, d.Summary.WaterLogs)
}

// History prints a merged listing, newest first.
func (pp *PrettyPrint) History(res app.HistoryResult) {
	since := res.Window.Since.Format("2006-01-02 15:04")
	until := res.Window.Until.Format("2006-01-02 15:04")
	pp.Title(fmt.Sprintf("History · last %s (%s → %s)", res.Window.Label, since, until))
	if len(res.Items) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := pp.table()
	for _, item := range res.Items {
		var what string
		switch {
		case item.Fast != nil:
			what = fmt.Sprintf("fast %s  %s", entry.ProtocolLabel(item.Fast.Protocol),
				timeutil.FormatClock(time.Duration(item.Fast.Duration)*time.Millisecond))
			if item.Fast.GoalReached() {
				what += color.New(color.FgGreen).Sprint("  ✓")
			}
		case item.Food != nil:
			what = fmt.Sprintf("%s  %s", item.Food.Cat, item.Food.Name)
			if item.Food.Cal != "" {
				what += fmt.Sprintf("  %d cal", item.Food.Cal.Value())
			}
		case item.Water != nil:
			what = FormatOunces(item.Water.Amount)
		}
		tbl.AddRow(pp.when(item.At), faint.Sprintf("%s[%d]", item.Collection, item.Index), what)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = faint.Fprintf(pp.out(), " %d fasts, %d meals, %d drinks\n", res.Fasts, res.Meals, res.Drinks)
}
