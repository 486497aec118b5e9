package models

import (
	"time"

	"github.com/claude/fittracker/internal/training"
	"github.com/google/uuid"
)

// ReportRow is a computed training report ready for insertion into the
// training_reports table. Variant-specific inputs are nil when they do not
// apply to the workout type.
type ReportRow struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Code         string    `json:"type"`
	TrainingType string    `json:"training_type"`

	Action     int      `json:"action"`
	Duration   float64  `json:"duration"`
	Weight     float64  `json:"weight"`
	Height     *float64 `json:"height,omitempty"`
	LengthPool *float64 `json:"length_pool,omitempty"`
	CountPool  *int     `json:"count_pool,omitempty"`

	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
	Calories float64 `json:"calories"`
	Message  string  `json:"message"`
}

// NewReportRow computes the session's metrics and snapshots them with a fresh ID.
func NewReportRow(s training.Session, now time.Time) ReportRow {
	info := s.Info()
	row := ReportRow{
		ID:           uuid.New(),
		CreatedAt:    now.UTC(),
		Code:         s.Kind.Code(),
		TrainingType: info.TrainingType,
		Action:       s.Action,
		Duration:     s.Duration,
		Weight:       s.Weight,
		Distance:     info.Distance,
		Speed:        info.Speed,
		Calories:     info.Calories,
		Message:      info.Message(),
	}
	switch s.Kind {
	case training.KindWalking:
		h := s.Height
		row.Height = &h
	case training.KindSwimming:
		l, c := s.LengthPool, s.CountPool
		row.LengthPool = &l
		row.CountPool = &c
	}
	return row
}

// Info returns the report's metrics as an InfoMessage.
func (r ReportRow) Info() training.InfoMessage {
	return training.InfoMessage{
		TrainingType: r.TrainingType,
		Duration:     r.Duration,
		Distance:     r.Distance,
		Speed:        r.Speed,
		Calories:     r.Calories,
	}
}

// TypeStats aggregates stored reports of one workout type.
type TypeStats struct {
	Code          string  `json:"type"`
	TrainingType  string  `json:"training_type"`
	Count         int     `json:"count"`
	TotalDuration float64 `json:"total_duration"`
	TotalDistance float64 `json:"total_distance"`
	TotalCalories float64 `json:"total_calories"`
	AvgSpeed      float64 `json:"avg_speed"`
}
