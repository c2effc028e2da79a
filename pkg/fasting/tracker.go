// Package fasting runs the single in-progress fast.
package fasting

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/store"
)

var (
	ErrAlreadyActive   = errors.New("fasting: a fast is already in progress")
	ErrInvalidProtocol = errors.New("fasting: protocol must be a positive number of hours")
)

// CelebrationDuration is how long Celebrating stays true after a fast that
// met its goal is ended.
const CelebrationDuration = 3 * time.Second

// DefaultTickInterval is the refresh cadence of Tick.
const DefaultTickInterval = time.Second

// State of the tracker.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Progress describes the in-progress fast at one instant.
type Progress struct {
	Active      bool          `json:"active"`
	Start       int64         `json:"start,omitempty"`
	Protocol    int           `json:"protocol,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
	Remaining   time.Duration `json:"remaining"`
	Percent     float64       `json:"percent"`
	GoalReached bool          `json:"goalReached"`
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// Tracker is the Idle/Active state machine. The active fast is a projection of
// the store's singleton; ending it moves it into the fasting log.
type Tracker struct {
	mu     sync.Mutex
	store  *store.Store
	now    func() time.Time
	log    *zap.Logger
	active *entry.ActiveFast
	// done is closed when the current active fast ends, stopping its tick loops.
	done           chan struct{}
	celebrateUntil time.Time
	goals          chan entry.FastingSession
}

// New restores any in-progress fast from s.
func New(s *store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		now:   time.Now,
		log:   zap.NewNop(),
		goals: make(chan entry.FastingSession, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	if a, ok := s.ActiveSession(); ok {
		t.active = &a
		t.done = make(chan struct{})
	}
	return t
}

// State reports whether a fast is in progress.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return Active
	}
	return Idle
}

// Current returns the in-progress fast.
func (t *Tracker) Current() (entry.ActiveFast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return entry.ActiveFast{}, false
	}
	return *t.active, true
}

// Start begins a fast targeting protocol hours. It fails when one is already
// running.
func (t *Tracker) Start(ctx context.Context, protocol int) (entry.ActiveFast, error) {
	if protocol <= 0 {
		return entry.ActiveFast{}, ErrInvalidProtocol
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return entry.ActiveFast{}, ErrAlreadyActive
	}
	a := entry.ActiveFast{Start: t.now().UnixMilli(), Protocol: protocol}
	t.active = &a
	t.done = make(chan struct{})
	t.store.SetActiveSession(ctx, &a)
	t.log.Debug("fast started", zap.Int64("start", a.Start), zap.Int("protocol", protocol))
	return a, nil
}

// End finishes the in-progress fast and records it. With no fast running it
// does nothing and ok is false.
func (t *Tracker) End(ctx context.Context) (session entry.FastingSession, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return entry.FastingSession{}, false, nil
	}
	session = t.store.AddFasting(ctx, t.active.Complete(t.now().UnixMilli()))
	t.store.SetActiveSession(ctx, nil)
	t.active = nil
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	t.log.Debug("fast ended", zap.Int64("duration", session.Duration), zap.Bool("goalReached", session.GoalReached()))
	if session.GoalReached() {
		t.celebrateUntil = t.now().Add(CelebrationDuration)
		select {
		case t.goals <- session:
		default:
		}
	}
	return session, true, nil
}

// Sync adopts the store's active singleton after the store was reloaded.
// A fast ended elsewhere stops the running tick loops.
func (t *Tracker) Sync() {
	a, ok := t.store.ActiveSession()
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case ok && t.active != nil && *t.active == a:
		return
	case ok:
		if t.done != nil {
			close(t.done)
		}
		t.active = &a
		t.done = make(chan struct{})
	case t.active != nil:
		t.active = nil
		if t.done != nil {
			close(t.done)
			t.done = nil
		}
	}
}

// Progress computes the live elapsed time and goal percentage.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

func (t *Tracker) progressLocked() Progress {
	if t.active == nil {
		return Progress{}
	}
	return Compute(*t.active, t.now())
}

// Compute derives Progress for a at now.
func Compute(a entry.ActiveFast, now time.Time) Progress {
	elapsed := now.UnixMilli() - a.Start
	if elapsed < 0 {
		elapsed = 0
	}
	goal := a.Goal()
	p := Progress{
		Active:   true,
		Start:    a.Start,
		Protocol: a.Protocol,
		Elapsed:  time.Duration(elapsed) * time.Millisecond,
	}
	if goal > 0 {
		p.Percent = math.Min(float64(elapsed)/float64(goal)*100, 100)
		p.GoalReached = elapsed >= goal
		if remaining := goal - elapsed; remaining > 0 {
			p.Remaining = time.Duration(remaining) * time.Millisecond
		}
	}
	return p
}

// Tick emits Progress every interval while the fast is in progress. The
// channel is closed when ctx is done or the fast ends; when no fast is running
// it is returned already closed.
func (t *Tracker) Tick(ctx context.Context, every time.Duration) <-chan Progress {
	if every <= 0 {
		every = DefaultTickInterval
	}
	out := make(chan Progress, 1)

	t.mu.Lock()
	done := t.done
	first := t.progressLocked()
	t.mu.Unlock()

	if done == nil {
		close(out)
		return out
	}
	out <- first

	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				p := t.Progress()
				if !p.Active {
					return
				}
				select {
				case out <- p:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()
	return out
}

// Celebrating is true for CelebrationDuration after a goal-reaching End.
func (t *Tracker) Celebrating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.celebrateUntil.IsZero() && t.now().Before(t.celebrateUntil)
}

// Goals delivers sessions that met their goal when ended. Sessions are dropped
// when nobody is receiving.
func (t *Tracker) Goals() <-chan entry.FastingSession {
	return t.goals
}
