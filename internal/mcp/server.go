package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// ds may be nil when running journal-only; history tools then report the
// database as unavailable.
func New(ds DataSource, status StatusSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymBuddy", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymBuddy workout coach. Query past workout logs and per-exercise form statistics, or read the live coaching status of the current session."),
	)

	h := &handlers{ds: ds, status: status, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutLogs, Handler: h.getWorkoutLogs},
		server.ServerTool{Tool: toolGetExerciseStats, Handler: h.getExerciseStats},
		server.ServerTool{Tool: toolGetLiveStatus, Handler: h.getLiveStatus},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	status StatusSource
	log    *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"gymbuddy://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workout logs from the last 14 days with rep counts, form scores, and injury warnings"),
	mcp.WithMIMEType("application/json"),
)
