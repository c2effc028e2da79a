package app

import (
	"sort"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

// HistoryItem is one logged event in a merged history.
type HistoryItem struct {
	Collection store.Collection `json:"collection"`
	At         int64            `json:"at"`
	// Index is the entry's position within its own log, as used by edit.
	Index int                   `json:"index"`
	Fast  *entry.FastingSession `json:"fast,omitempty"`
	Food  *entry.FoodEntry      `json:"food,omitempty"`
	Water *entry.WaterEntry     `json:"water,omitempty"`
}

// ID returns the key the item is deleted by.
func (h HistoryItem) ID() int64 {
	switch {
	case h.Fast != nil:
		return h.Fast.Key()
	case h.Food != nil:
		return h.Food.ID
	case h.Water != nil:
		return h.Water.ID
	}
	return 0
}

// HistoryResult holds the items in a window, newest first.
type HistoryResult struct {
	Window timeutil.Window `json:"window"`
	Items  []HistoryItem   `json:"items"`
	Fasts  int             `json:"fasts"`
	Meals  int             `json:"meals"`
	Drinks int             `json:"drinks"`
}

// History merges the three logs into one newest-first listing of the entries
// logged inside w. Fasts are placed by their start.
func (s *Service) History(w timeutil.Window) HistoryResult {
	snap := s.Store.Snapshot()
	res := HistoryResult{Window: w}
	for i := range snap.Fasting {
		f := snap.Fasting[i]
		if w.Contains(f.Start) {
			res.Items = append(res.Items, HistoryItem{Collection: store.Fasting, At: f.Start, Index: i, Fast: &f})
			res.Fasts++
		}
	}
	for i := range snap.Food {
		f := snap.Food[i]
		if w.Contains(f.TS) {
			res.Items = append(res.Items, HistoryItem{Collection: store.Food, At: f.TS, Index: i, Food: &f})
			res.Meals++
		}
	}
	for i := range snap.Water {
		d := snap.Water[i]
		if w.Contains(d.TS) {
			res.Items = append(res.Items, HistoryItem{Collection: store.Water, At: d.TS, Index: i, Water: &d})
			res.Drinks++
		}
	}
	sort.SliceStable(res.Items, func(i, j int) bool {
		return res.Items[i].At > res.Items[j].At
	})
	return res
}
