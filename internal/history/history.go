package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB keeps a local log of reports computed by the command-line tracker.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite history database at dir/history.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS reports (
		id            TEXT PRIMARY KEY,
		created_at    TIMESTAMP NOT NULL,
		code          TEXT NOT NULL,
		training_type TEXT NOT NULL,
		action        INTEGER NOT NULL,
		duration      REAL NOT NULL,
		weight        REAL NOT NULL,
		distance      REAL NOT NULL,
		speed         REAL NOT NULL,
		calories      REAL NOT NULL,
		message       TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &DB{db: db}, nil
}

// Record stores a computed report.
func (h *DB) Record(ctx context.Context, row models.ReportRow) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (id, created_at, code, training_type, action, duration, weight,
		 distance, speed, calories, message) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.CreatedAt.UTC().Format(time.RFC3339Nano), row.Code, row.TrainingType,
		row.Action, row.Duration, row.Weight, row.Distance, row.Speed, row.Calories, row.Message,
	)
	if err != nil {
		return fmt.Errorf("recording report: %w", err)
	}
	return nil
}

// Recent returns up to limit reports, newest first.
func (h *DB) Recent(ctx context.Context, limit int) ([]models.ReportRow, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, created_at, code, training_type, action, duration, weight,
		 distance, speed, calories, message
		 FROM reports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []models.ReportRow
	for rows.Next() {
		var (
			r      models.ReportRow
			id, ts string
		)
		if err := rows.Scan(&id, &ts, &r.Code, &r.TrainingType, &r.Action, &r.Duration, &r.Weight,
			&r.Distance, &r.Speed, &r.Calories, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing report id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing report time %q: %w", ts, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close closes the history database.
func (h *DB) Close() error {
	return h.db.Close()
}
