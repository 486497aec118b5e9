package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/observability"
	"github.com/claude/fittracker/internal/training"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolComputeTrainingReport = mcp.NewTool("compute_training_report",
	mcp.WithDescription("Compute distance (km), average speed (km/h) and calories for one sensor reading and render the report line. Parameter order: RUN action,duration,weight; WLK action,duration,weight,height; SWM action,duration,weight,length_pool,count_pool. Duration is in hours, weight in kg, height in cm, pool length in metres."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type code"), mcp.Enum("RUN", "WLK", "SWM")),
	mcp.WithArray("data", mcp.Required(), mcp.Description("Positional sensor values for the workout type"), mcp.Items(map[string]any{"type": "number"})),
)

var toolGetTrainingReports = mcp.NewTool("get_training_reports",
	mcp.WithDescription("List stored training reports in a date range, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("type", mcp.Description("Filter by workout type code"), mcp.Enum("RUN", "WLK", "SWM")),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Per-type totals of stored reports: count, duration, distance, calories and average speed."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) computeTrainingReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	data, err := numberSlice(req.GetArguments()["data"])
	if err != nil {
		return mcp.NewToolResultError("data: " + err.Error()), nil
	}

	s, err := training.ReadPackage(training.NormalizeCode(code), data)
	if err != nil {
		observability.RecordRejected(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	row := models.NewReportRow(s, time.Now())
	observability.RecordReport(row.Code, row.Calories)

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingReports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	code := training.NormalizeCode(req.GetString("type", ""))
	if code != "" {
		if _, err := training.ParseCode(code); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	rows, err := h.ds.QueryReports(ctx, start, end, code)
	if err != nil {
		h.log.Error("mcp get_training_reports", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if rows == nil {
		rows = []models.ReportRow{}
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	stats, err := h.ds.GetReportStats(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if stats == nil {
		stats = []models.TypeStats{}
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// numberSlice converts a decoded JSON array argument to float64 values.
func numberSlice(v any) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return vals, nil
	case []any:
		out := make([]float64, len(vals))
		for i, x := range vals {
			switch n := x.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			default:
				return nil, fmt.Errorf("element %d is %T, want number", i, x)
			}
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("required")
	default:
		return nil, fmt.Errorf("got %T, want array of numbers", v)
	}
}
