package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/store"
)

func registerResources(srv *server.MCPServer, svc *app.Service) {
	registerDashboardResource(srv, svc)
	registerLogTemplate(srv, svc)
}

func registerDashboardResource(srv *server.MCPServer, svc *app.Service) {
	resource := mcp.NewResource(
		"fastlog://dashboard",
		"Dashboard",
		mcp.WithResourceDescription("The fast in progress, today's totals, this week's charts and the all-time summary."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return encodeResourceJSON(request.Params.URI, dashboard(svc))
	})
}

func registerLogTemplate(srv *server.MCPServer, svc *app.Service) {
	template := mcp.NewResourceTemplate(
		"fastlog://logs/{collection}",
		"Log Entries",
		mcp.WithTemplateDescription("Every entry of the fasting, food or water log, newest first."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := strings.TrimPrefix(request.Params.URI, "fastlog://logs/")
		payload, err := logPayload(svc, name)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func logPayload(svc *app.Service, name string) (map[string]any, error) {
	c, err := store.ParseCollection(name)
	if err != nil {
		return nil, err
	}
	var entries any
	switch c {
	case store.Fasting:
		entries = svc.Store.Fasting()
	case store.Food:
		entries = svc.Store.Food()
	case store.Water:
		entries = svc.Store.Water()
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCollection, name)
	}
	return map[string]any{
		"collection": c,
		"count":      svc.Store.Len(c),
		"entries":    entries,
	}, nil
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
