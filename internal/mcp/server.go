package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fittracker/internal/training"
)

// New creates an MCP server with all tools and resources registered.
// When ds is nil only the stateless tools are offered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("fittracker", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("fittracker turns workout sensor readings (running RUN, sports walking WLK, swimming SWM) into distance, average speed and calories. Use compute_training_report for a single reading; stored reports can be queried by date range."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTool(toolComputeTrainingReport, h.computeTrainingReport)
	if ds != nil {
		s.AddTools(
			server.ServerTool{Tool: toolGetTrainingReports, Handler: h.getTrainingReports},
			server.ServerTool{Tool: toolGetTrainingStats, Handler: h.getTrainingStats},
		)
	}

	s.AddResource(resWorkoutTypes, h.workoutTypes)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resWorkoutTypes = mcp.NewResource(
	"fittracker://workout_types",
	"Workout Types",
	mcp.WithResourceDescription("Supported workout type codes with their parameter order and step length"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) workoutTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(training.Catalog())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
