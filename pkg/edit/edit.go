// Package edit corrects completed log entries.
//
// An edit is opened on an index, changed as a draft outside the store and
// either committed or dropped. Drafts reference positions, so no other
// mutation may run between opening and committing an edit.
package edit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

var (
	ErrInvalidTime      = errors.New("edit: invalid time")
	ErrEndNotAfterStart = errors.New("edit: end must be after start")
	ErrInvalidProtocol  = errors.New("edit: protocol must be a positive number of hours")
	ErrInvalidAmount    = errors.New("edit: amount must be a positive number")
	ErrInvalidCalories  = errors.New("edit: calories must be a non-negative integer")
	ErrInvalidCategory  = errors.New("edit: unknown food category")
)

// Editor opens and commits drafts against a store.
type Editor struct {
	Store *store.Store
	// Location is used to read and write draft times; nil means time.Local.
	Location *time.Location
}

func (e *Editor) loc() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// FastDraft holds editable fields of a fasting session.
type FastDraft struct {
	Protocol int
	Start    string
	End      string
}

// FastEdit is an open edit of the fasting session at Index.
type FastEdit struct {
	Index int
	Draft FastDraft
	loc   *time.Location
}

// FastPreview is what committing the draft would produce.
type FastPreview struct {
	Start    int64
	End      int64
	Duration time.Duration
	Percent  float64
	Valid    bool
	Err      error
}

// OpenFast starts editing the session at index.
func (e *Editor) OpenFast(index int) (*FastEdit, error) {
	list := e.Store.Fasting()
	if index < 0 || index >= len(list) {
		return nil, store.ErrIndexOutOfRange
	}
	f := list[index]
	return &FastEdit{
		Index: index,
		Draft: FastDraft{
			Protocol: f.Protocol,
			Start:    timeutil.ToInput(f.Start, e.loc()),
			End:      timeutil.ToInput(f.End, e.loc()),
		},
		loc: e.loc(),
	}, nil
}

// Preview validates the draft and computes the resulting duration and
// percentage of goal.
func (f *FastEdit) Preview() FastPreview {
	start, err := timeutil.FromInput(f.Draft.Start, f.loc)
	if err != nil {
		return FastPreview{Err: fmt.Errorf("%w: start: %v", ErrInvalidTime, err)}
	}
	end, err := timeutil.FromInput(f.Draft.End, f.loc)
	if err != nil {
		return FastPreview{Err: fmt.Errorf("%w: end: %v", ErrInvalidTime, err)}
	}
	p := FastPreview{Start: start, End: end, Duration: time.Duration(end-start) * time.Millisecond}
	if f.Draft.Protocol > 0 {
		p.Percent = float64(end-start) / float64(int64(f.Draft.Protocol)*entry.HourMillis) * 100
	}
	switch {
	case end <= start:
		p.Err = ErrEndNotAfterStart
	case f.Draft.Protocol <= 0:
		p.Err = ErrInvalidProtocol
	default:
		p.Valid = true
	}
	return p
}

// CommitFast writes a valid draft back in place. Nothing changes when the
// draft is invalid.
func (e *Editor) CommitFast(ctx context.Context, f *FastEdit) (entry.FastingSession, error) {
	p := f.Preview()
	if !p.Valid {
		return entry.FastingSession{}, p.Err
	}
	return e.Store.UpdateFasting(ctx, f.Index, func(s *entry.FastingSession) {
		s.Start = p.Start
		s.End = p.End
		s.Duration = p.End - p.Start
		s.Protocol = f.Draft.Protocol
	})
}

// FoodDraft holds editable fields of a food entry.
type FoodDraft struct {
	Name string
	Cal  string
	Cat  string
	Note string
	At   string
}

// FoodEdit is an open edit of the food entry at Index.
type FoodEdit struct {
	Index int
	Draft FoodDraft
}

// OpenFood starts editing the food entry at index.
func (e *Editor) OpenFood(index int) (*FoodEdit, error) {
	list := e.Store.Food()
	if index < 0 || index >= len(list) {
		return nil, store.ErrIndexOutOfRange
	}
	f := list[index]
	return &FoodEdit{
		Index: index,
		Draft: FoodDraft{
			Name: f.Name,
			Cal:  string(f.Cal),
			Cat:  f.Cat,
			Note: f.Note,
			At:   timeutil.ToInput(f.TS, e.loc()),
		},
	}, nil
}

// CommitFood writes the draft back in place. The name may be left empty.
func (e *Editor) CommitFood(ctx context.Context, f *FoodEdit) (entry.FoodEntry, error) {
	ts, err := timeutil.FromInput(f.Draft.At, e.loc())
	if err != nil {
		return entry.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	cal := entry.Calories(strings.TrimSpace(f.Draft.Cal))
	if err := cal.Validate(); err != nil {
		return entry.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidCalories, err)
	}
	cat, err := entry.ParseCategory(f.Draft.Cat)
	if err != nil {
		return entry.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	return e.Store.UpdateFood(ctx, f.Index, func(fe *entry.FoodEntry) {
		fe.Name = f.Draft.Name
		fe.Cal = cal
		fe.Cat = cat
		fe.Note = f.Draft.Note
		fe.TS = ts
	})
}

// WaterDraft holds editable fields of a water entry.
type WaterDraft struct {
	Amount string
	At     string
}

// WaterEdit is an open edit of the water entry at Index.
type WaterEdit struct {
	Index int
	Draft WaterDraft
}

// OpenWater starts editing the water entry at index.
func (e *Editor) OpenWater(index int) (*WaterEdit, error) {
	list := e.Store.Water()
	if index < 0 || index >= len(list) {
		return nil, store.ErrIndexOutOfRange
	}
	w := list[index]
	return &WaterEdit{
		Index: index,
		Draft: WaterDraft{
			Amount: strconv.FormatFloat(w.Amount, 'f', -1, 64),
			At:     timeutil.ToInput(w.TS, e.loc()),
		},
	}, nil
}

// CommitWater coerces the amount to a number and writes the draft back in
// place.
func (e *Editor) CommitWater(ctx context.Context, w *WaterEdit) (entry.WaterEntry, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(w.Draft.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return entry.WaterEntry{}, fmt.Errorf("%w: %q", ErrInvalidAmount, w.Draft.Amount)
	}
	ts, err := timeutil.FromInput(w.Draft.At, e.loc())
	if err != nil {
		return entry.WaterEntry{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return e.Store.UpdateWater(ctx, w.Index, func(we *entry.WaterEntry) {
		we.Amount = amount
		we.TS = ts
	})
}
