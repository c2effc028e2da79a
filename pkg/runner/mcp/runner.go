// Package mcp serves the fasting, food and water logs over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/fastlog/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	Service *app.Service
	Name    string
	Version string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
}

func newServer(svc *app.Service, name, version string, m *metrics) *server.MCPServer {
	if name == "" {
		name = "fastlog"
	}
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Start and end fasts, log food and water, and read progress and weekly rollups."),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc, m)
	return srv
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("mcp runner requires a service")
	}
	m := newMetrics()
	srv := newServer(r.Service, r.Name, r.Version, m)

	switch t := r.Transport; t {
	case "", TransportStdio:
		return server.ServeStdio(srv)
	case TransportHTTP:
		return r.serveHTTP(ctx, srv, m)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

// serveHTTP serves the MCP endpoint alongside /metrics.
func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, m *metrics) error {
	handler := server.NewStreamableHTTPServer(srv)

	path := r.HTTPEndpointPath
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	if path != "/metrics" {
		mux.Handle("/metrics", m.handler())
	}

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
