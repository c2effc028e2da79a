package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastlog",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result.",
		}, []string{"tool", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fastlog",
			Subsystem: "mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	m.registry.MustRegister(m.calls, m.latency)
	return m
}

// instrument counts calls to h. Tool errors reported in the result count as
// errors.
func (m *metrics) instrument(tool string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := h(ctx, request)
		result := "ok"
		if err != nil || (res != nil && res.IsError) {
			result = "error"
		}
		m.calls.WithLabelValues(tool, result).Inc()
		m.latency.WithLabelValues(tool).Observe(time.Since(start).Seconds())
		return res, err
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
