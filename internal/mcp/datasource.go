package mcp

import (
	"context"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/storage"
)

// DataSource abstracts the report store for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryReports(ctx context.Context, start, end time.Time, code string) ([]models.ReportRow, error)
	GetReportStats(ctx context.Context, start, end time.Time) ([]models.TypeStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
