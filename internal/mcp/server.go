package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("TerraPump", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("TerraPump workout tracking server. Query workout history, previous exercise performance, daily health entries, and the equipment catalog. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetPreviousStats, Handler: h.getPreviousStats},
		server.ServerTool{Tool: toolGetDailyEntries, Handler: h.getDailyEntries},
		server.ServerTool{Tool: toolGetCatalog, Handler: h.getCatalog},
		server.ServerTool{Tool: toolGetTrainingVolume, Handler: h.getTrainingVolume},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resCatalog, Handler: h.catalogResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"terrapump://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days with per-exercise sets, reps, and weights"),
	mcp.WithMIMEType("application/json"),
)

var resCatalog = mcp.NewResource(
	"terrapump://catalog",
	"Equipment Catalog",
	mcp.WithResourceDescription("The full equipment catalog: brands, machines, cable attachments, and the generic exercise library"),
	mcp.WithMIMEType("application/json"),
)
