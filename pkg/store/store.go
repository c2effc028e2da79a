// Package store owns the fasting, food and water logs and their settings.
//
// Every mutator updates memory first and then writes the affected key through
// the kv.Store. Write failures are logged and otherwise ignored: the in-memory
// state stays authoritative for the rest of the process.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/kv"
)

var (
	ErrEmptyName         = errors.New("store: food name required")
	ErrInvalidCalories   = errors.New("store: calories must be a non-negative integer")
	ErrInvalidCategory   = errors.New("store: unknown food category")
	ErrInvalidAmount     = errors.New("store: water amount must be positive")
	ErrInvalidGoal       = errors.New("store: water goal must be positive")
	ErrInvalidPreset     = errors.New("store: preset must be between 1 and 9999")
	ErrDefaultPreset     = errors.New("store: default presets cannot be removed")
	ErrIndexOutOfRange   = errors.New("store: index out of range")
	ErrUnknownCollection = errors.New("store: unknown collection")
)

// Collection names one of the three logs.
type Collection string

const (
	Fasting Collection = "fasting"
	Food    Collection = "food"
	Water   Collection = "water"
)

// ParseCollection accepts a collection name, case-insensitively.
func ParseCollection(v string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(v))); c {
	case Fasting, Food, Water:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, v)
}

// Snapshot is a copy of everything the store holds.
type Snapshot struct {
	Fasting      []entry.FastingSession `json:"fasting" yaml:"fasting"`
	Food         []entry.FoodEntry      `json:"food" yaml:"food"`
	Water        []entry.WaterEntry     `json:"water" yaml:"water"`
	Active       *entry.ActiveFast      `json:"active,omitempty" yaml:"active,omitempty"`
	WaterGoal    float64                `json:"waterGoal" yaml:"waterGoal"`
	WaterPresets []int                  `json:"waterPresets" yaml:"waterPresets"`
}

// FoodInput carries the user-entered fields of a new food entry.
type FoodInput struct {
	Name string
	Cal  string
	Cat  string
	Note string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes persistence warnings to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for id and timestamp assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds the three logs, the water settings and the active fast.
type Store struct {
	mu  sync.RWMutex
	kv  kv.Store
	log *zap.Logger
	now func() time.Time

	fasting  []entry.FastingSession
	food     []entry.FoodEntry
	water    []entry.WaterEntry
	active   *entry.ActiveFast
	goal     float64
	presets  []int
	selected int
}

// Open loads every key from backing. Missing or unreadable values fall back
// to defaults.
func Open(ctx context.Context, backing kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:       backing,
		log:      zap.NewNop(),
		now:      time.Now,
		selected: entry.FallbackWaterAmount,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	s.load(ctx)
	s.mu.Unlock()
	return s
}

// Reload re-reads every key, discarding in-memory state.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	s.fasting = decode(ctx, s, kv.KeyFastingLog, []entry.FastingSession{})
	s.food = decode(ctx, s, kv.KeyFoodLog, []entry.FoodEntry{})
	s.water = decode(ctx, s, kv.KeyWaterLog, []entry.WaterEntry{})
	s.active = decode[*entry.ActiveFast](ctx, s, kv.KeyActiveFast, nil)
	s.goal = decode[float64](ctx, s, kv.KeyWaterGoal, entry.DefaultWaterGoal)
	if s.goal <= 0 {
		s.goal = entry.DefaultWaterGoal
	}
	s.presets = normalizePresets(decode(ctx, s, kv.KeyWaterPresets, []int{}))
	if s.fasting == nil {
		s.fasting = []entry.FastingSession{}
	}
	if s.food == nil {
		s.food = []entry.FoodEntry{}
	}
	if s.water == nil {
		s.water = []entry.WaterEntry{}
	}
}

func decode[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("load failed, using default", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn("malformed stored value, using default", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return v
}

// save must be called with s.mu held.
func (s *Store) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		s.log.Warn("persist failed", zap.String("key", key), zap.Error(err))
	}
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// AddFasting prepends a completed session. Its id defaults to its start and
// its duration is recomputed from start and end.
func (s *Store) AddFasting(ctx context.Context, f entry.FastingSession) entry.FastingSession {
	if f.ID == 0 {
		f.ID = f.Start
	}
	if f.End != 0 {
		f.Duration = f.End - f.Start
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fasting = prepend(s.fasting, f)
	s.save(ctx, kv.KeyFastingLog, s.fasting)
	return f
}

// AddFood validates in and prepends a new entry stamped with the current time.
func (s *Store) AddFood(ctx context.Context, in FoodInput) (entry.FoodEntry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entry.FoodEntry{}, ErrEmptyName
	}
	cal := entry.Calories(strings.TrimSpace(in.Cal))
	if err := cal.Validate(); err != nil {
		return entry.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidCalories, err)
	}
	cat, err := entry.ParseCategory(in.Cat)
	if err != nil {
		return entry.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UnixMilli()
	e := entry.FoodEntry{
		ID:   uniqueID(now, s.food, func(f entry.FoodEntry) int64 { return f.ID }),
		Name: name,
		Cal:  cal,
		Cat:  cat,
		Note: strings.TrimSpace(in.Note),
		TS:   now,
	}
	s.food = prepend(s.food, e)
	s.save(ctx, kv.KeyFoodLog, s.food)
	return e, nil
}

// AddWater prepends a drink of amount fluid ounces.
func (s *Store) AddWater(ctx context.Context, amount float64) (entry.WaterEntry, error) {
	if !(amount > 0) {
		return entry.WaterEntry{}, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UnixMilli()
	e := entry.WaterEntry{
		ID:     uniqueID(now, s.water, func(w entry.WaterEntry) int64 { return w.ID }),
		Amount: amount,
		TS:     now,
	}
	s.water = prepend(s.water, e)
	s.save(ctx, kv.KeyWaterLog, s.water)
	return e, nil
}

// AddSelectedWater logs the currently selected amount.
func (s *Store) AddSelectedWater(ctx context.Context) (entry.WaterEntry, error) {
	return s.AddWater(ctx, float64(s.SelectedWaterAmount()))
}

// UpdateFasting applies fn to the session at index without moving it.
func (s *Store) UpdateFasting(ctx context.Context, index int, fn func(*entry.FastingSession)) (entry.FastingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := updateAt(s.fasting, index, fn)
	if err != nil {
		return entry.FastingSession{}, err
	}
	s.fasting = list
	s.save(ctx, kv.KeyFastingLog, s.fasting)
	return list[index], nil
}

// UpdateFood applies fn to the food entry at index without moving it.
func (s *Store) UpdateFood(ctx context.Context, index int, fn func(*entry.FoodEntry)) (entry.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := updateAt(s.food, index, fn)
	if err != nil {
		return entry.FoodEntry{}, err
	}
	s.food = list
	s.save(ctx, kv.KeyFoodLog, s.food)
	return list[index], nil
}

// UpdateWater applies fn to the water entry at index without moving it.
func (s *Store) UpdateWater(ctx context.Context, index int, fn func(*entry.WaterEntry)) (entry.WaterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := updateAt(s.water, index, fn)
	if err != nil {
		return entry.WaterEntry{}, err
	}
	s.water = list
	s.save(ctx, kv.KeyWaterLog, s.water)
	return list[index], nil
}

// DeleteByID removes the entry keyed by id from c. Deleting a missing id is
// not an error; removed reports whether anything changed.
func (s *Store) DeleteByID(ctx context.Context, c Collection, id int64) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c {
	case Fasting:
		s.fasting, removed = removeWhere(s.fasting, func(f entry.FastingSession) bool { return f.Key() == id })
		s.save(ctx, kv.KeyFastingLog, s.fasting)
	case Food:
		s.food, removed = removeWhere(s.food, func(f entry.FoodEntry) bool { return f.ID == id })
		s.save(ctx, kv.KeyFoodLog, s.food)
	case Water:
		s.water, removed = removeWhere(s.water, func(w entry.WaterEntry) bool { return w.ID == id })
		s.save(ctx, kv.KeyWaterLog, s.water)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return removed, nil
}

// Len returns the number of entries in c.
func (s *Store) Len(c Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch c {
	case Fasting:
		return len(s.fasting)
	case Food:
		return len(s.food)
	case Water:
		return len(s.water)
	}
	return 0
}

// ActiveSession returns the persisted in-progress fast, if any.
func (s *Store) ActiveSession() (entry.ActiveFast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return entry.ActiveFast{}, false
	}
	return *s.active, true
}

// SetActiveSession replaces the in-progress singleton; nil clears it.
func (s *Store) SetActiveSession(ctx context.Context, a *entry.ActiveFast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a == nil {
		s.active = nil
	} else {
		cp := *a
		s.active = &cp
	}
	s.save(ctx, kv.KeyActiveFast, s.active)
}

// SetWaterGoal replaces the daily water goal.
func (s *Store) SetWaterGoal(ctx context.Context, goal float64) error {
	if !(goal > 0) {
		return ErrInvalidGoal
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal
	s.save(ctx, kv.KeyWaterGoal, s.goal)
	return nil
}

// SetWaterPresets replaces the preset set. Defaults are always kept; values
// outside 1..9999 are dropped.
func (s *Store) SetWaterPresets(ctx context.Context, presets []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = normalizePresets(presets)
	s.save(ctx, kv.KeyWaterPresets, s.presets)
}

// AddWaterPreset adds a custom preset and selects it.
func (s *Store) AddWaterPreset(ctx context.Context, v int) error {
	if v <= 0 || v > entry.MaxWaterPreset {
		return ErrInvalidPreset
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.presets, v) {
		s.presets = normalizePresets(append(slices.Clone(s.presets), v))
	}
	s.selected = v
	s.save(ctx, kv.KeyWaterPresets, s.presets)
	return nil
}

// RemoveWaterPreset removes a custom preset. When it was selected, the
// selection moves to the first remaining preset.
func (s *Store) RemoveWaterPreset(ctx context.Context, v int) error {
	if entry.IsDefaultPreset(v) {
		return ErrDefaultPreset
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets, _ = removeWhere(s.presets, func(p int) bool { return p == v })
	if s.selected == v {
		s.selected = entry.FallbackWaterAmount
		if len(s.presets) > 0 {
			s.selected = s.presets[0]
		}
	}
	s.save(ctx, kv.KeyWaterPresets, s.presets)
	return nil
}

// SelectWaterAmount sets the amount AddSelectedWater logs. It is not
// persisted.
func (s *Store) SelectWaterAmount(v int) error {
	if v <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = v
	return nil
}

// SelectedWaterAmount returns the amount AddSelectedWater logs.
func (s *Store) SelectedWaterAmount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *Store) Fasting() []entry.FastingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fasting)
}

func (s *Store) Food() []entry.FoodEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.food)
}

func (s *Store) Water() []entry.WaterEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.water)
}

func (s *Store) WaterGoal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goal
}

func (s *Store) WaterPresets() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.presets)
}

// Snapshot copies the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Fasting:      slices.Clone(s.fasting),
		Food:         slices.Clone(s.food),
		Water:        slices.Clone(s.water),
		WaterGoal:    s.goal,
		WaterPresets: slices.Clone(s.presets),
	}
	if s.active != nil {
		cp := *s.active
		snap.Active = &cp
	}
	return snap
}
