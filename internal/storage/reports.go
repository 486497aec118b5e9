package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reportColumns = `id, created_at, code, training_type, action, duration, weight,
	height, length_pool, count_pool, distance, speed, calories, message`

const insertReportSQL = `INSERT INTO training_reports (` + reportColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	ON CONFLICT DO NOTHING`

func reportArgs(row models.ReportRow) []any {
	return []any{
		row.ID, row.CreatedAt, row.Code, row.TrainingType, row.Action, row.Duration, row.Weight,
		row.Height, row.LengthPool, row.CountPool, row.Distance, row.Speed, row.Calories, row.Message,
	}
}

// InsertReport inserts a report row. Returns true if inserted, false if duplicate.
func (db *DB) InsertReport(ctx context.Context, row models.ReportRow) (bool, error) {
	tag, err := db.Pool.Exec(ctx, insertReportSQL, reportArgs(row)...)
	if err != nil {
		return false, fmt.Errorf("inserting report: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertReports inserts rows in a single transaction: either every row is
// stored or none is. Returns the number of rows inserted (duplicates skipped).
func (db *DB) InsertReports(ctx context.Context, rows []models.ReportRow) (int64, error) {
	var inserted int64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, row := range rows {
			tag, err := tx.Exec(ctx, insertReportSQL, reportArgs(row)...)
			if err != nil {
				return fmt.Errorf("inserting report %s: %w", row.ID, err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("inserting reports: %w", err)
	}
	return inserted, nil
}

// QueryReports retrieves reports created in a time range, newest first.
// An empty code returns every workout type.
func (db *DB) QueryReports(ctx context.Context, start, end time.Time, code string) ([]models.ReportRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+reportColumns+`
		 FROM training_reports
		 WHERE created_at >= $1 AND created_at < $2 AND ($3 = '' OR code = $3)
		 ORDER BY created_at DESC`,
		start, end, code)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var result []models.ReportRow
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetReport retrieves a single report by ID.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*models.ReportRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM training_reports WHERE id = $1`, id)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReportStats aggregates reports per workout type in a time range.
func (db *DB) GetReportStats(ctx context.Context, start, end time.Time) ([]models.TypeStats, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT code, MIN(training_type), COUNT(*),
		 COALESCE(SUM(duration), 0), COALESCE(SUM(distance), 0), COALESCE(SUM(calories), 0),
		 COALESCE(AVG(speed), 0)
		 FROM training_reports
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY code
		 ORDER BY code`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying report stats: %w", err)
	}
	defer rows.Close()

	var result []models.TypeStats
	for rows.Next() {
		var s models.TypeStats
		if err := rows.Scan(&s.Code, &s.TrainingType, &s.Count,
			&s.TotalDuration, &s.TotalDistance, &s.TotalCalories, &s.AvgSpeed); err != nil {
			return nil, fmt.Errorf("scanning report stats: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanReport(row pgx.Row) (models.ReportRow, error) {
	var r models.ReportRow
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Code, &r.TrainingType, &r.Action, &r.Duration, &r.Weight,
		&r.Height, &r.LengthPool, &r.CountPool, &r.Distance, &r.Speed, &r.Calories, &r.Message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning report: %w", err)
	}
	return r, nil
}
