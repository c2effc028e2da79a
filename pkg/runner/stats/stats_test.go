package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/store"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	svc := app.New(ctx, kv.NewMemory(), app.WithClock(func() time.Time { return now }))
	if _, err := svc.AddFood(ctx, store.FoodInput{Name: "soup", Cal: "450"}); err != nil {
		t.Fatalf("add food: %v", err)
	}
	if _, err := svc.AddWater(ctx, 32); err != nil {
		t.Fatalf("add water: %v", err)
	}
	return svc
}

func TestStatsJSON(t *testing.T) {
	var buf bytes.Buffer
	s := Stats{Service: newService(t), JSON: true, Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	var r Report
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if r.Fast.Active {
		t.Fatalf("expected no active fast")
	}
	if r.Dashboard.TodayCalories != 450 || r.Dashboard.HydrationPercent != 50 {
		t.Fatalf("unexpected dashboard %+v", r.Dashboard)
	}
}

func TestStatsPretty(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	s := Stats{Service: newService(t), Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"not fasting", "calories  450 (1 meals)", "32 oz of 64 oz", "Water this week", "fasts 0  avg -"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
