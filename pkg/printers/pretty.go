package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/timeutil"
)

const noteWidth = 72

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out    io.Writer
	ShowID bool
	// Location defaults to time.Local.
	Location *time.Location
	// Rows maps printed rows to log positions when a filtered log is
	// printed; nil prints positions as-is.
	Rows []int
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func (pp *PrettyPrint) header(tbl *uitable.Table, cols ...interface{}) {
	bold := color.New(color.Bold)
	row := make([]interface{}, 0, len(cols)+1)
	row = append(row, bold.Sprint("#"))
	if pp.ShowID {
		row = append(row, bold.Sprint("ID"))
	}
	for _, c := range cols {
		row = append(row, bold.Sprint(c))
	}
	tbl.AddRow(row...)
}

func (pp *PrettyPrint) row(tbl *uitable.Table, index int, id int64, cols ...interface{}) {
	y := color.New(color.FgHiYellow, color.Faint)
	row := make([]interface{}, 0, len(cols)+2)
	row = append(row, pp.position(index))
	if pp.ShowID {
		row = append(row, y.Sprint(id))
	}
	tbl.AddRow(append(row, cols...)...)
}

func (pp *PrettyPrint) position(i int) int {
	if i < len(pp.Rows) {
		return pp.Rows[i]
	}
	return i
}

func (pp *PrettyPrint) when(ms int64) string {
	return timeutil.FormatDate(ms, pp.Location) + " " + timeutil.FormatTime(ms, pp.Location)
}

// FastLog prints completed fasts with their goal status.
func (pp *PrettyPrint) FastLog(sessions ...entry.FastingSession) {
	if len(sessions) == 0 {
		pp.none()
		return
	}
	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	tbl := pp.table()
	pp.header(tbl, "Started", "Duration", "Protocol", "Goal")
	for i, s := range sessions {
		goal := faint.Sprintf("%.0f%%", s.PercentOfGoal())
		if s.GoalReached() {
			goal = green.Sprint("reached")
		}
		pp.row(tbl, i, s.Key(),
			pp.when(s.Start),
			timeutil.FormatClock(time.Duration(s.Duration)*time.Millisecond),
			entry.ProtocolLabel(s.Protocol),
			goal)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// FoodLog prints meals. Notes are wrapped below the table.
func (pp *PrettyPrint) FoodLog(food ...entry.FoodEntry) {
	if len(food) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)

	tbl := pp.table()
	pp.header(tbl, "Logged", "Category", "Calories", "Name")
	var notes []string
	for i, f := range food {
		cal := faint.Sprint("-")
		if f.Cal != "" {
			cal = strconv.Itoa(f.Cal.Value())
		}
		pp.row(tbl, i, f.ID, pp.when(f.TS), f.Cat, cal, f.Name)
		if note := strings.TrimSpace(f.Note); note != "" {
			notes = append(notes, fmt.Sprintf("[%d] %s", pp.position(i), note))
		}
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	for _, n := range notes {
		_, _ = faint.Fprintln(pp.out(), wordwrap.String(n, noteWidth))
	}
	pp.NewLine()
}

// WaterLog prints drinks.
func (pp *PrettyPrint) WaterLog(water ...entry.WaterEntry) {
	if len(water) == 0 {
		pp.none()
		return
	}
	tbl := pp.table()
	pp.header(tbl, "Logged", "Amount")
	for i, w := range water {
		pp.row(tbl, i, w.ID, pp.when(w.TS), FormatOunces(w.Amount))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// FormatOunces renders oz without trailing zeros.
func FormatOunces(oz float64) string {
	return strconv.FormatFloat(oz, 'f', -1, 64) + " oz"
}
