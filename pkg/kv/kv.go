// Package kv provides the whole-value key/value persistence used by the
// fasting, food and water logs.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Logical keys written by the store.
const (
	KeyFastingLog   = "ft_fasting_log"
	KeyFoodLog      = "ft_food_log"
	KeyWaterLog     = "ft_water_log"
	KeyActiveFast   = "ft_active_fast"
	KeyWaterGoal    = "ft_water_goal"
	KeyWaterPresets = "ft_water_presets"
)

// Keys lists every logical key.
var Keys = []string{KeyFastingLog, KeyFoodLog, KeyWaterLog, KeyActiveFast, KeyWaterGoal, KeyWaterPresets}

// Store is a string-valued key/value store. Get reports ok=false when the key
// has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Watcher is implemented by stores that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Closer is implemented by stores holding an open handle.
type Closer interface {
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendDisk   Backend = "disk"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend normalizes a configured backend name.
func ParseBackend(v string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(v))); b {
	case "", BackendDisk:
		return BackendDisk, nil
	case BackendSQLite, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("kv: unknown backend %q", v)
	}
}

// Load opens the Store described by cfg, reading the configuration first
// when cfg is nil.
func Load(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	backend, err := ParseBackend(cfg.Backend())
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendSQLite:
		s, err := OpenSQLite(cfg.BasePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		s, err := OpenDisk(cfg.BasePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
