package commands

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/store"
)

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("FASTLOG_BACKEND", "disk")
	t.Setenv("FASTLOG_PATH", t.TempDir())
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func execute(args ...string) (string, error) {
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	require.NoError(t, err, out)
	return out
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, path := range [][]string{
		{"fast", "start"}, {"fast", "end"}, {"fast", "status"}, {"fast", "ls"}, {"fast", "edit"}, {"fast", "rm"},
		{"food", "add"}, {"food", "ls"}, {"food", "edit"}, {"food", "rm"},
		{"water", "add"}, {"water", "ls"}, {"water", "edit"}, {"water", "rm"}, {"water", "goal"},
		{"water", "preset", "ls"}, {"water", "preset", "add"}, {"water", "preset", "rm"},
		{"stats"}, {"history"}, {"export"}, {"watch"}, {"mcp"}, {"info"}, {"version"}, {"completion"},
	} {
		cmd, _, err := root.Find(path)
		if assert.NoError(t, err, path) {
			assert.Equal(t, path[len(path)-1], cmd.Name())
		}
	}
}

func TestFastLifecycle(t *testing.T) {
	setup(t)

	out := mustExecute(t, "fast", "start", "-p", "18:6")
	assert.Contains(t, out, "Started a 18:6 fast")

	_, err := execute("fast", "start")
	assert.ErrorIs(t, err, fasting.ErrAlreadyActive)

	out = mustExecute(t, "fast", "status", "--json")
	var p fasting.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p), out)
	assert.True(t, p.Active)
	assert.Equal(t, 18, p.Protocol)

	out = mustExecute(t, "fast", "end")
	assert.Contains(t, out, "Ended a 18:6 fast after")

	out = mustExecute(t, "fast", "end")
	assert.Contains(t, out, "No fast in progress.")

	out = mustExecute(t, "fast", "ls")
	assert.Contains(t, out, "Fasts - 1 entry")

	out = mustExecute(t, "fast", "status")
	assert.Contains(t, out, "not fasting")
}

func TestFoodAddEditList(t *testing.T) {
	setup(t)

	out := mustExecute(t, "food", "add", "oatmeal", "with", "berries", "--cal", "350")
	assert.Contains(t, out, "Logged oatmeal with berries (Breakfast, 350 cal)")

	_, err := execute("food", "add", "toast", "--cal", "lots")
	assert.ErrorIs(t, err, store.ErrInvalidCalories)

	out = mustExecute(t, "food", "edit", "0", "--cal", "420", "--cat", "lunch", "--json")
	var f entry.FoodEntry
	require.NoError(t, json.Unmarshal([]byte(out), &f), out)
	assert.Equal(t, "oatmeal with berries", f.Name)
	assert.Equal(t, 420, f.Cal.Value())
	assert.Equal(t, entry.Lunch, f.Cat)

	_, err = execute("food", "edit", "3", "--cal", "1")
	assert.ErrorIs(t, err, store.ErrIndexOutOfRange)

	out = mustExecute(t, "food", "ls")
	assert.Contains(t, out, "oatmeal with berries")
	assert.Contains(t, out, "Lunch")
}

func TestWaterPresetsAndGoal(t *testing.T) {
	setup(t)

	assert.Contains(t, mustExecute(t, "water", "add"), "Logged 8 oz")
	assert.Contains(t, mustExecute(t, "water", "add", "12"), "Logged 12 oz")

	_, err := execute("water", "add", "0")
	assert.ErrorIs(t, err, store.ErrInvalidAmount)

	assert.Contains(t, mustExecute(t, "water", "goal", "80"), "Daily goal: 80 oz")
	assert.Contains(t, mustExecute(t, "water", "goal"), "Daily goal: 80 oz")

	out := mustExecute(t, "water", "preset", "add", "32")
	assert.Contains(t, out, "Presets: 8 oz, 16 oz, 24 oz, 32 oz*")

	_, err = execute("water", "preset", "rm", "8")
	assert.ErrorIs(t, err, store.ErrDefaultPreset)

	out = mustExecute(t, "water", "preset", "rm", "32")
	assert.Contains(t, out, "Presets: 8 oz, 16 oz, 24 oz")
	assert.NotContains(t, out, "32 oz")

	out = mustExecute(t, "water", "ls", "--today")
	assert.Contains(t, out, "Water - 2 entries")
}

func TestRemoveByID(t *testing.T) {
	setup(t)

	out := mustExecute(t, "water", "add", "10", "--json")
	var w entry.WaterEntry
	require.NoError(t, json.Unmarshal([]byte(out), &w), out)

	id := strconv.FormatInt(w.ID, 10)
	assert.Contains(t, mustExecute(t, "water", "rm", id), "Deleted "+id)
	assert.Contains(t, mustExecute(t, "water", "rm", id), "Nothing with id "+id)

	_, err := execute("water", "rm", "abc")
	assert.Error(t, err)
}

func TestExportAfterLogging(t *testing.T) {
	setup(t)

	mustExecute(t, "food", "add", "soup", "--cal", "200", "--note", "leftovers")
	mustExecute(t, "water", "add", "16")

	out := mustExecute(t, "export")
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap), out)
	require.Len(t, snap.Food, 1)
	assert.Equal(t, "leftovers", snap.Food[0].Note)
	require.Len(t, snap.Water, 1)
	assert.Equal(t, 16.0, snap.Water[0].Amount)

	assert.Contains(t, mustExecute(t, "export", "--format", "yaml"), "name: soup")
}

func TestStatsAndHistory(t *testing.T) {
	setup(t)

	mustExecute(t, "food", "add", "soup", "--cal", "200")
	mustExecute(t, "water", "add", "16")

	out := mustExecute(t, "stats")
	assert.Contains(t, out, "calories  200 (1 meals)")

	out = mustExecute(t, "history", "--last", "1d")
	assert.Contains(t, out, "soup")

	_, err := execute("history", "--last", "5m")
	assert.Error(t, err)
}
