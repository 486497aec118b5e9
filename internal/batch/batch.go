package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/observability"
	"github.com/claude/fittracker/internal/training"
)

// Recorder stores computed reports. *history.DB satisfies it.
type Recorder interface {
	Record(ctx context.Context, row models.ReportRow) error
}

// Stats tracks batch progress.
type Stats struct {
	Packages int
	Reports  int
	Recorded int
}

// Runner renders sensor packages as report lines.
type Runner struct {
	out io.Writer
	rec Recorder
	log *slog.Logger
	now func() time.Time
}

// New creates a Runner writing report lines to out. rec may be nil.
func New(out io.Writer, rec Recorder, log *slog.Logger) *Runner {
	return &Runner{out: out, rec: rec, log: log, now: time.Now}
}

// Run renders every package in order, one line each. It stops at the first
// package the factory rejects; lines already written are kept.
func (r *Runner) Run(ctx context.Context, pkgs []training.Package) (*Stats, error) {
	stats := &Stats{}
	for i, p := range pkgs {
		stats.Packages++

		s, err := p.Read()
		if err != nil {
			observability.RecordRejected(err)
			return stats, fmt.Errorf("package %d: %w", i+1, err)
		}

		row := models.NewReportRow(s, r.now())
		if _, err := fmt.Fprintln(r.out, row.Message); err != nil {
			return stats, fmt.Errorf("writing report: %w", err)
		}
		stats.Reports++
		observability.RecordReport(row.Code, row.Calories)

		if r.rec == nil {
			continue
		}
		if err := r.rec.Record(ctx, row); err != nil {
			r.log.Warn("failed to record report", "type", row.Code, "error", err)
			continue
		}
		stats.Recorded++
	}
	return stats, nil
}
