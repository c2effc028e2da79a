package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Watch when a key file changes on disk.
type Event struct {
	Key string
}

var knownKeys = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		m[k] = struct{}{}
	}
	return m
}()

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
// Writes made through this Disk are reported too.
func (s *Disk) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("kv: base path unknown")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kv: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "kv: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(s.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("kv: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 16)

	go func() {
		var sendMu sync.Mutex
		closed := false
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// Consumer is busy; it reloads everything on the next event.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				key := filepath.Base(evt.Name)
				if _, known := knownKeys[key]; !known {
					continue
				}
				throttle.Enqueue(Event{Key: key}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so readers reload once
// per burst of writes instead of on every single one.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for key := range pending {
		send(Event{Key: key})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
