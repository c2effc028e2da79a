package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	disk, err := OpenDisk(t.TempDir())
	require.NoError(t, err)
	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })
	return map[string]Store{
		"disk":   disk,
		"sqlite": lite,
		"memory": NewMemory(),
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(context.Background(), KeyFoodLog)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, KeyWaterGoal, "64"))
			require.NoError(t, s.Set(ctx, KeyWaterGoal, "80"))
			v, ok, err := s.Get(ctx, KeyWaterGoal)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "80", v)
		})
	}
}

func TestSQLiteAcceptsDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenSQLite(dir)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set(context.Background(), KeyActiveFast, "null"))
	assert.FileExists(t, filepath.Join(dir, "fastlog.db"))
}

func TestDiskSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	first, err := OpenDisk(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyWaterPresets, "[8,16,24,32]"))

	second, err := OpenDisk(dir)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, KeyWaterPresets)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[8,16,24,32]", v)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendDisk, b)
	b, err = ParseBackend("SQLite")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)
	_, err = ParseBackend("postgres")
	assert.Error(t, err)
}

func TestLoadWithStaticConfig(t *testing.T) {
	s, err := Load(StaticConfig{Path: t.TempDir(), BackendName: "memory"})
	require.NoError(t, err)
	_, isMemory := s.(*Memory)
	assert.True(t, isMemory)
}
