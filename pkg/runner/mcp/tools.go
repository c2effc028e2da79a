package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/runner/stats"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *app.Service, m *metrics) {
	add := func(tool mcp.Tool, h server.ToolHandlerFunc) {
		srv.AddTool(tool, m.instrument(tool.Name, h))
	}
	add(fastStatusTool(), fastStatus(svc))
	add(startFastTool(), startFast(svc))
	add(endFastTool(), endFast(svc))
	add(logFoodTool(), logFood(svc))
	add(logWaterTool(), logWater(svc))
	add(deleteEntryTool(), deleteEntry(svc))
	add(dashboardTool(), dashboardHandler(svc))
	add(historyTool(), history(svc))
}

func dashboard(svc *app.Service) stats.Report {
	return stats.Report{Fast: svc.Status(), Dashboard: svc.Dashboard()}
}

func protocolLabels() []string {
	labels := make([]string, 0, len(entry.Protocols))
	for _, p := range entry.Protocols {
		labels = append(labels, p.Label)
	}
	return labels
}

func fastStatusTool() mcp.Tool {
	return mcp.NewTool(
		"fast_status",
		mcp.WithDescription("Progress of the fast in progress: elapsed, remaining and percent of goal."),
	)
}

func fastStatus(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(svc.Status())
	}
}

func startFastTool() mcp.Tool {
	return mcp.NewTool(
		"start_fast",
		mcp.WithDescription("Start a fast. Fails when one is already in progress."),
		mcp.WithString("protocol",
			mcp.Description(fmt.Sprintf("One of %s, or a number of hours. Defaults to %s.",
				strings.Join(protocolLabels(), ", "), entry.ProtocolLabel(entry.DefaultProtocol))),
		),
	)
}

func startFast(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := svc.StartFast(ctx, request.GetString("protocol", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(a)
	}
}

func endFastTool() mcp.Tool {
	return mcp.NewTool(
		"end_fast",
		mcp.WithDescription("End the fast in progress and record it in the fasting log."),
	)
}

func endFast(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, ok, err := svc.EndFast(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultError("no fast in progress"), nil
		}
		return toJSONResult(map[string]any{
			"session":     s,
			"goalReached": s.GoalReached(),
			"percent":     s.PercentOfGoal(),
		})
	}
}

func logFoodTool() mcp.Tool {
	return mcp.NewTool(
		"log_food",
		mcp.WithDescription("Log a meal or snack at the current time."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("What was eaten."),
		),
		mcp.WithString("calories",
			mcp.Description("Calories as a non-negative integer. May be omitted."),
		),
		mcp.WithString("category",
			mcp.Description("Meal category."),
			mcp.Enum(entry.Categories...),
		),
		mcp.WithString("note",
			mcp.Description("Free-form note."),
		),
	)
}

func logFood(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name     string `json:"name"`
			Calories string `json:"calories"`
			Category string `json:"category"`
			Note     string `json:"note"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		f, err := svc.AddFood(ctx, store.FoodInput{
			Name: args.Name,
			Cal:  args.Calories,
			Cat:  args.Category,
			Note: args.Note,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(f)
	}
}

func logWaterTool() mcp.Tool {
	return mcp.NewTool(
		"log_water",
		mcp.WithDescription("Log water in fluid ounces at the current time."),
		mcp.WithNumber("ounces",
			mcp.Description("Amount in fluid ounces. Omit to log the selected preset."),
		),
	)
}

func logWater(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		oz := request.GetFloat("ounces", 0)
		if oz < 0 {
			return mcp.NewToolResultError(store.ErrInvalidAmount.Error()), nil
		}
		w, err := svc.AddWater(ctx, oz)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(w)
	}
}

func deleteEntryTool() mcp.Tool {
	return mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete an entry by id. Deleting an id that is not present is not an error."),
		mcp.WithString("collection",
			mcp.Required(),
			mcp.Description("Log holding the entry."),
			mcp.Enum(string(store.Fasting), string(store.Food), string(store.Water)),
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Entry id, in epoch milliseconds."),
		),
	)
}

func deleteEntry(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		collection, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireFloat("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		removed, err := svc.Delete(ctx, collection, int64(id))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]bool{"removed": removed})
	}
}

func dashboardTool() mcp.Tool {
	return mcp.NewTool(
		"dashboard",
		mcp.WithDescription("Today's calories and water, this week's fasting hours and water, and the all-time summary."),
	)
}

func dashboardHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(dashboard(svc))
	}
}

func historyTool() mcp.Tool {
	return mcp.NewTool(
		"history",
		mcp.WithDescription("Fasts, meals and water logged within a lookback window, newest first."),
		mcp.WithString("last",
			mcp.Description("Lookback such as 1d (today), 3d or 1w2d. Defaults to 1w."),
		),
	)
}

func history(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		w, err := timeutil.ParseWindow(request.GetString("last", timeutil.DefaultWindow), svc.Now())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(svc.History(w))
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
