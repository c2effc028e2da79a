package kv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk stores each key as a file under a base directory.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDisk returns a diskv-backed Store rooted at basePath.
func OpenDisk(basePath string) (*Disk, error) {
	if basePath == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	// No read cache: other processes write the same files.
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:  basePath,
		Transform: flatTransform,
	}), basePath: basePath}, nil
}

func flatTransform(string) []string {
	return []string{}
}

// BasePath is the directory holding the key files.
func (s *Disk) BasePath() string {
	return s.basePath
}

func (s *Disk) Get(_ context.Context, key string) (string, bool, error) {
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return string(val), true, nil
}

func (s *Disk) Set(_ context.Context, key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}
