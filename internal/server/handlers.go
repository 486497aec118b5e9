package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/fittracker/internal/ingest/sensor"
	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/observability"
	"github.com/claude/fittracker/internal/storage"
	"github.com/claude/fittracker/internal/training"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var p training.Package
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p.Code = training.NormalizeCode(p.Code)

	row, err := s.compute(p)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !s.save(w, r, row) {
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleBatchReports(w http.ResponseWriter, r *http.Request) {
	lines, err := sensor.Parse(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows := make([]models.ReportRow, 0, len(lines))
	for _, l := range lines {
		row, err := s.compute(l.Package)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": err.Error(),
				"line":  l.Number,
			})
			return
		}
		rows = append(rows, row)
	}
	if _, err := s.store.InsertReports(r.Context(), rows); err != nil {
		s.log.Error("insert reports", "count", len(rows), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleQueryReports(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	code := training.NormalizeCode(r.URL.Query().Get("type"))
	if code != "" {
		if _, err := training.ParseCode(code); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	rows, err := s.store.QueryReports(r.Context(), start, end, code)
	if err != nil {
		s.log.Error("query reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []models.ReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid report ID"})
		return
	}

	row, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}
	if err != nil {
		s.log.Error("get report", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleReportStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stats, err := s.store.GetReportStats(r.Context(), start, end)
	if err != nil {
		s.log.Error("report stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if stats == nil {
		stats = []models.TypeStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWorkoutTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, training.Catalog())
}

// compute builds the report for one package and counts the outcome.
func (s *Server) compute(p training.Package) (models.ReportRow, error) {
	sess, err := p.Read()
	if err != nil {
		observability.RecordRejected(err)
		return models.ReportRow{}, err
	}
	row := models.NewReportRow(sess, s.now())
	observability.RecordReport(row.Code, row.Calories)
	return row, nil
}

// save stores a report, writing a 500 and returning false on failure.
func (s *Server) save(w http.ResponseWriter, r *http.Request, row models.ReportRow) bool {
	if _, err := s.store.InsertReport(r.Context(), row); err != nil {
		s.log.Error("insert report", "id", row.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		// Default: last 7 days
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return
}
