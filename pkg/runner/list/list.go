// Package list prints one of the logs.
package list

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

// List prints a log newest first. Row numbers are the indexes edit commands
// take.
type List struct {
	Service    *app.Service
	Collection store.Collection
	// Today limits food and water to entries logged today.
	Today   bool
	ShowID  bool
	Printer *printers.PrettyPrint
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no service")
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.ShowID = n.ShowID
	now := n.Service.Now()

	switch n.Collection {
	case store.Fasting:
		log := n.Service.Store.Fasting()
		pp.TitleWithCount("Fasts", len(log))
		pp.FastLog(log...)
	case store.Food:
		log := n.Service.Store.Food()
		if n.Today {
			log, pp.Rows = today(log, now, func(f entry.FoodEntry) int64 { return f.TS })
		}
		pp.TitleWithCount("Food", len(log))
		pp.FoodLog(log...)
	case store.Water:
		log := n.Service.Store.Water()
		if n.Today {
			log, pp.Rows = today(log, now, func(w entry.WaterEntry) int64 { return w.TS })
		}
		pp.TitleWithCount("Water", len(log))
		pp.WaterLog(log...)
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownCollection, n.Collection)
	}
	return nil
}

// today keeps the entries logged on now's date along with their positions in
// the full log.
func today[T any](log []T, now time.Time, ts func(T) int64) ([]T, []int) {
	var out []T
	var rows []int
	for i, v := range log {
		if timeutil.SameDay(timeutil.FromMillis(ts(v), now.Location()), now) {
			out = append(out, v)
			rows = append(rows, i)
		}
	}
	return out, rows
}
