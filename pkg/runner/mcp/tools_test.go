package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/runner/stats"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T) (*app.Service, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC)}
	return app.New(context.Background(), kv.NewMemory(), app.WithClock(c.Now)), c
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %#v", res.Content[0])
	}
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(t, res))
	}
	if err := json.Unmarshal([]byte(text(t, res)), v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestFastTools(t *testing.T) {
	svc, c := newService(t)

	var a entry.ActiveFast
	decode(t, call(t, startFast(svc), map[string]any{"protocol": "20:4"}), &a)
	if a.Protocol != 20 {
		t.Fatalf("expected 20h protocol, got %d", a.Protocol)
	}
	if res := call(t, startFast(svc), nil); !res.IsError {
		t.Fatalf("expected second start to fail")
	}

	c.now = c.now.Add(10 * time.Hour)
	var p fasting.Progress
	decode(t, call(t, fastStatus(svc), nil), &p)
	if !p.Active || p.Percent != 50 {
		t.Fatalf("unexpected progress %+v", p)
	}

	var ended struct {
		Session     entry.FastingSession `json:"session"`
		GoalReached bool                 `json:"goalReached"`
	}
	decode(t, call(t, endFast(svc), nil), &ended)
	if ended.GoalReached || ended.Session.Duration != 10*entry.HourMillis {
		t.Fatalf("unexpected session %+v", ended)
	}
	if res := call(t, endFast(svc), nil); !res.IsError {
		t.Fatalf("expected end while idle to fail")
	}
}

func TestLogAndDelete(t *testing.T) {
	svc, _ := newService(t)

	var f entry.FoodEntry
	decode(t, call(t, logFood(svc), map[string]any{"name": "eggs", "calories": "210", "category": "Breakfast"}), &f)
	if f.Name != "eggs" || f.Cal.Value() != 210 {
		t.Fatalf("unexpected food %+v", f)
	}
	if res := call(t, logFood(svc), map[string]any{"name": "eggs", "calories": "-1"}); !res.IsError {
		t.Fatalf("expected bad calories to fail")
	}

	var w entry.WaterEntry
	decode(t, call(t, logWater(svc), nil), &w)
	if w.Amount != 8 {
		t.Fatalf("expected selected preset, got %v", w.Amount)
	}

	var removed map[string]bool
	decode(t, call(t, deleteEntry(svc), map[string]any{"collection": "food", "id": float64(f.ID)}), &removed)
	if !removed["removed"] {
		t.Fatalf("expected removal")
	}
	decode(t, call(t, deleteEntry(svc), map[string]any{"collection": "food", "id": float64(f.ID)}), &removed)
	if removed["removed"] {
		t.Fatalf("expected second delete to be a no-op")
	}
	if res := call(t, deleteEntry(svc), map[string]any{"collection": "snacks", "id": float64(1)}); !res.IsError {
		t.Fatalf("expected unknown collection to fail")
	}
}

func TestDashboardAndHistory(t *testing.T) {
	svc, _ := newService(t)
	call(t, logWater(svc), map[string]any{"ounces": float64(32)})

	var r stats.Report
	decode(t, call(t, dashboardHandler(svc), nil), &r)
	if r.Dashboard.TodayWaterOz != 32 || r.Dashboard.HydrationPercent != 50 {
		t.Fatalf("unexpected dashboard %+v", r.Dashboard)
	}

	var h app.HistoryResult
	decode(t, call(t, history(svc), map[string]any{"last": "1d"}), &h)
	if h.Drinks != 1 || len(h.Items) != 1 || h.Items[0].Water == nil {
		t.Fatalf("unexpected history %+v", h)
	}
	if res := call(t, history(svc), map[string]any{"last": "soon"}); !res.IsError {
		t.Fatalf("expected bad window to fail")
	}
}

func TestLogPayload(t *testing.T) {
	svc, _ := newService(t)
	call(t, logWater(svc), map[string]any{"ounces": float64(12)})

	p, err := logPayload(svc, "water")
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p["count"] != 1 {
		t.Fatalf("unexpected count %v", p["count"])
	}
	if _, err := logPayload(svc, "naps"); err == nil {
		t.Fatalf("expected unknown collection error")
	}
}

func TestNewServer(t *testing.T) {
	svc, _ := newService(t)
	if newServer(svc, "", "", newMetrics()) == nil {
		t.Fatalf("expected server")
	}
}

func TestInstrumentCountsResults(t *testing.T) {
	svc, _ := newService(t)
	m := newMetrics()
	h := m.instrument("end_fast", endFast(svc))

	call(t, h, nil)
	if got := testutil.ToFloat64(m.calls.WithLabelValues("end_fast", "error")); got != 1 {
		t.Fatalf("expected one error, got %v", got)
	}

	call(t, startFast(svc), nil)
	call(t, h, nil)
	if got := testutil.ToFloat64(m.calls.WithLabelValues("end_fast", "ok")); got != 1 {
		t.Fatalf("expected one success, got %v", got)
	}
}
