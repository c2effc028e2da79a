package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/fastlog/pkg/edit"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/stats"
	"tableflip.dev/fastlog/pkg/store"
)

// ErrWatchUnsupported is returned by Watch when the backend cannot report
// changes made by other processes.
var ErrWatchUnsupported = errors.New("app: backend does not support watching")

// Service provides the high-level fasting, food and water operations.
// It wraps the store, tracker and editor so CLIs and the live view share logic.
type Service struct {
	Backend kv.Store
	Store   *store.Store
	Tracker *fasting.Tracker
	Editor  *edit.Editor
	Log     *zap.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	log      *zap.Logger
	now      func() time.Time
	location *time.Location
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the zone edit drafts are read and written in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// New loads every log from backing and restores any in-progress fast.
func New(ctx context.Context, backing kv.Store, opts ...Option) *Service {
	o := options{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	s := store.Open(ctx, backing, store.WithLogger(o.log.Named("store")), store.WithClock(o.now))
	return &Service{
		Backend: backing,
		Store:   s,
		Tracker: fasting.New(s, fasting.WithLogger(o.log.Named("fasting")), fasting.WithClock(o.now)),
		Editor:  &edit.Editor{Store: s, Location: o.location},
		Log:     o.log,
	}
}

// Now reads the service clock.
func (s *Service) Now() time.Time {
	return s.Store.Now()
}

// StartFast begins a fast. An empty protocol selects the default.
func (s *Service) StartFast(ctx context.Context, protocol string) (entry.ActiveFast, error) {
	hours := entry.DefaultProtocol
	if protocol != "" {
		var err error
		if hours, err = entry.ParseProtocol(protocol); err != nil {
			return entry.ActiveFast{}, fmt.Errorf("%w: %v", fasting.ErrInvalidProtocol, err)
		}
	}
	return s.Tracker.Start(ctx, hours)
}

// EndFast completes the in-progress fast. ok is false when none was running.
func (s *Service) EndFast(ctx context.Context) (entry.FastingSession, bool, error) {
	return s.Tracker.End(ctx)
}

// Status reports the in-progress fast at the current instant.
func (s *Service) Status() fasting.Progress {
	return s.Tracker.Progress()
}

// AddFood logs a meal.
func (s *Service) AddFood(ctx context.Context, in store.FoodInput) (entry.FoodEntry, error) {
	return s.Store.AddFood(ctx, in)
}

// AddWater logs amount ounces; zero logs the selected preset.
func (s *Service) AddWater(ctx context.Context, amount float64) (entry.WaterEntry, error) {
	if amount == 0 {
		return s.Store.AddSelectedWater(ctx)
	}
	return s.Store.AddWater(ctx, amount)
}

// Delete removes the entry keyed by id from the named collection.
func (s *Service) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	c, err := store.ParseCollection(collection)
	if err != nil {
		return false, err
	}
	removed, err := s.Store.DeleteByID(ctx, c, id)
	if err == nil && !removed {
		s.Log.Debug("delete found nothing", zap.String("collection", string(c)), zap.Int64("id", id))
	}
	return removed, err
}

// Dashboard recomputes every rollup from the current logs.
func (s *Service) Dashboard() stats.Dashboard {
	return stats.Compute(s.Store.Snapshot(), s.Now())
}

// Export returns a copy of everything stored.
func (s *Service) Export() store.Snapshot {
	return s.Store.Snapshot()
}

// Refresh re-reads the backend and adopts any fast started or ended by
// another process.
func (s *Service) Refresh(ctx context.Context) {
	s.Store.Reload(ctx)
	s.Tracker.Sync()
}

// Watch subscribes to changes made to the backend.
func (s *Service) Watch(ctx context.Context) (<-chan kv.Event, error) {
	w, ok := s.Backend.(kv.Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// Close releases the backend handle, if it holds one.
func (s *Service) Close() error {
	if c, ok := s.Backend.(kv.Closer); ok {
		return c.Close()
	}
	return nil
}
