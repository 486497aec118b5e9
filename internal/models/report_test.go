package models

import (
	"testing"
	"time"

	"github.com/claude/fittracker/internal/training"
	"github.com/google/uuid"
)

// TestNewReportRowRunning verifies a running row has no variant-specific inputs.
func TestNewReportRowRunning(t *testing.T) {
	s, err := training.NewRunning(15000, 1, 75)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	row := NewReportRow(s, now)

	if row.ID == uuid.Nil {
		t.Error("expected non-nil ID")
	}
	if !row.CreatedAt.Equal(now) || row.CreatedAt.Location() != time.UTC {
		t.Errorf("created_at = %v, want %v in UTC", row.CreatedAt, now)
	}
	if row.Code != "RUN" || row.TrainingType != "Running" {
		t.Errorf("code/type = %q/%q", row.Code, row.TrainingType)
	}
	if row.Height != nil || row.LengthPool != nil || row.CountPool != nil {
		t.Errorf("running row carries variant fields: %+v", row)
	}
	if row.Message != s.Info().Message() {
		t.Errorf("message = %q", row.Message)
	}
}

// TestNewReportRowVariants verifies walking and swimming inputs are kept.
func TestNewReportRowVariants(t *testing.T) {
	wlk, err := training.NewWalking(9000, 1, 75, 180)
	if err != nil {
		t.Fatal(err)
	}
	row := NewReportRow(wlk, time.Now())
	if row.Height == nil || *row.Height != 180 {
		t.Errorf("height = %v, want 180", row.Height)
	}

	swm, err := training.NewSwimming(720, 1, 80, 25, 40)
	if err != nil {
		t.Fatal(err)
	}
	row = NewReportRow(swm, time.Now())
	if row.LengthPool == nil || *row.LengthPool != 25 {
		t.Errorf("length_pool = %v, want 25", row.LengthPool)
	}
	if row.CountPool == nil || *row.CountPool != 40 {
		t.Errorf("count_pool = %v, want 40", row.CountPool)
	}
	if got := row.Info().Message(); got != row.Message {
		t.Errorf("Info().Message() = %q, want %q", got, row.Message)
	}
}
