package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/store"
)

func seeded(t *testing.T) *app.Service {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC)
	svc := app.New(ctx, kv.NewMemory(), app.WithClock(func() time.Time { return now }))
	_, err := svc.AddFood(ctx, store.FoodInput{Name: "oats", Cal: "300", Note: "with honey"})
	require.NoError(t, err)
	_, err = svc.AddWater(ctx, 16)
	require.NoError(t, err)
	_, err = svc.StartFast(ctx, "18:6")
	require.NoError(t, err)
	return svc
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	e := Export{Service: seeded(t), Out: &buf}
	require.NoError(t, e.Do(context.Background()))

	var got store.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "oats", got.Food[0].Name)
	assert.Equal(t, 300, got.Food[0].Cal.Value())
	assert.Equal(t, 16.0, got.Water[0].Amount)
	require.NotNil(t, got.Active)
	assert.Equal(t, 18, got.Active.Protocol)
	assert.Equal(t, []int{8, 16, 24}, got.WaterPresets)
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	e := Export{Service: seeded(t), Format: "yaml", Out: &buf}
	require.NoError(t, e.Do(context.Background()))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 64, got["waterGoal"])
	assert.Contains(t, buf.String(), "name: oats")
	assert.Contains(t, buf.String(), "note: with honey")
}

func TestExportUnknownFormat(t *testing.T) {
	e := Export{Service: seeded(t), Format: "csv", Out: &bytes.Buffer{}}
	assert.Error(t, e.Do(context.Background()))
}
