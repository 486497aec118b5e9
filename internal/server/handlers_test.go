package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/fittracker/internal/models"
	"github.com/claude/fittracker/internal/storage"
	"github.com/claude/fittracker/internal/training"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

// memStore is an in-memory ReportStore.
type memStore struct {
	mu   sync.Mutex
	rows []models.ReportRow
	// failAt makes the n-th insert (1-based) of an InsertReports call fail.
	failAt int
}

func (m *memStore) InsertReport(_ context.Context, row models.ReportRow) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == row.ID {
			return false, nil
		}
	}
	m.rows = append(m.rows, row)
	return true, nil
}

func (m *memStore) InsertReports(_ context.Context, rows []models.ReportRow) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := append([]models.ReportRow(nil), m.rows...)
	var inserted int64
	for i, row := range rows {
		if m.failAt == i+1 {
			return 0, errors.New("connection reset")
		}
		dup := false
		for _, r := range staged {
			if r.ID == row.ID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		staged = append(staged, row)
		inserted++
	}
	m.rows = staged
	return inserted, nil
}

func (m *memStore) QueryReports(_ context.Context, start, end time.Time, code string) ([]models.ReportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReportRow
	for _, r := range m.rows {
		if r.CreatedAt.Before(start) || !r.CreatedAt.Before(end) {
			continue
		}
		if code != "" && r.Code != code {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetReport(_ context.Context, id uuid.UUID) (*models.ReportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetReportStats(_ context.Context, start, end time.Time) ([]models.TypeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := map[string]int{}
	var out []models.TypeStats
	for _, r := range m.rows {
		i, ok := index[r.Code]
		if !ok {
			out = append(out, models.TypeStats{Code: r.Code, TrainingType: r.TrainingType})
			i = len(out) - 1
			index[r.Code] = i
		}
		out[i].Count++
		out[i].TotalCalories += r.Calories
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := &memStore{}
	return New(store, testAPIKey, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func do(t *testing.T, s *Server, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestCreateReport verifies a package is computed, stored and returned.
func TestCreateReport(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/reports", `{"type":"run","data":[15000,1,75]}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var row models.ReportRow
	if err := json.NewDecoder(rec.Body).Decode(&row); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	want := "Training type: Running; Duration: 1.000 h; Distance: 9.750 km; Avg speed: 9.750 km/h; Calories burned: 699.750."
	if row.Message != want {
		t.Errorf("message = %q, want %q", row.Message, want)
	}
	if row.Code != "RUN" {
		t.Errorf("type = %q, want RUN", row.Code)
	}
	if len(store.rows) != 1 || store.rows[0].ID != row.ID {
		t.Errorf("stored rows = %+v", store.rows)
	}
}

// TestCreateReportRejected verifies factory errors come back as 400 and nothing is stored.
func TestCreateReportRejected(t *testing.T) {
	s, store := newTestServer(t)

	cases := []string{
		`{"type":"XYZ","data":[1,2,3]}`,
		`{"type":"SWM","data":[720,1,80]}`,
		`{"type":"RUN","data":[15000,0,75]}`,
		`not json`,
	}
	for _, body := range cases {
		rec := do(t, s, http.MethodPost, "/api/v1/reports", body, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(store.rows) != 0 {
		t.Errorf("stored rows = %d, want 0", len(store.rows))
	}
}

// TestCreateReportRequiresAPIKey verifies the write routes are protected.
func TestCreateReportRequiresAPIKey(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/reports", `{"type":"RUN","data":[15000,1,75]}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/batch", strings.NewReader("RUN;1;1;1"))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestBatchReports verifies every line is computed in order.
func TestBatchReports(t *testing.T) {
	s, store := newTestServer(t)

	body := "SWM;720;1;80;25;40\nRUN;15000;1;75\nWLK;9000;1;75;180\n"
	rec := do(t, s, http.MethodPost, "/api/v1/reports/batch", body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var rows []models.ReportRow
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, code := range []string{"SWM", "RUN", "WLK"} {
		if rows[i].Code != code {
			t.Errorf("rows[%d].type = %q, want %q", i, rows[i].Code, code)
		}
	}
	if len(store.rows) != 3 {
		t.Errorf("stored rows = %d, want 3", len(store.rows))
	}
}

// TestBatchReportsAllOrNothing verifies a bad package stores nothing and
// names its line.
func TestBatchReportsAllOrNothing(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/reports/batch", "RUN;15000;1;75\nXYZ;1;2;3\n", true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
		Line  int    `json:"line"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Line != 2 {
		t.Errorf("line = %d, want 2", body.Line)
	}
	if len(store.rows) != 0 {
		t.Errorf("stored rows = %d, want 0", len(store.rows))
	}
}

// TestBatchReportsStoreFailure verifies a store error midway through a batch
// leaves nothing stored.
func TestBatchReportsStoreFailure(t *testing.T) {
	s, store := newTestServer(t)
	store.failAt = 2

	rec := do(t, s, http.MethodPost, "/api/v1/reports/batch", "RUN;15000;1;75\nSWM;720;1;80;25;40\n", true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(store.rows) != 0 {
		t.Errorf("stored rows = %d, want 0", len(store.rows))
	}
}

// TestQueryAndGetReports verifies stored reports can be listed, filtered and fetched.
func TestQueryAndGetReports(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/reports/batch", "SWM;720;1;80;25;40\nRUN;15000;1;75\n", true)

	rec := do(t, s, http.MethodGet, "/api/v1/reports?type=swm", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rows []models.ReportRow
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "SWM" {
		t.Fatalf("rows = %+v, want one SWM report", rows)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/reports/"+rows[0].ID.String(), "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got models.ReportRow
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.ID != rows[0].ID || got.Message != rows[0].Message {
		t.Errorf("got %+v, want %+v", got, rows[0])
	}
}

// TestQueryReportsBadType verifies an unknown type filter is a client error.
func TestQueryReportsBadType(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/api/v1/reports?type=XYZ", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestGetReportNotFound verifies missing and malformed IDs.
func TestGetReportNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := do(t, s, http.MethodGet, "/api/v1/reports/"+uuid.NewString(), "", false); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/reports/not-a-uuid", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestReportStats verifies the stats route is not captured by the {id} route.
func TestReportStats(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/reports/batch", "RUN;15000;1;75\nRUN;15000;1;75\n", true)

	rec := do(t, s, http.MethodGet, "/api/v1/reports/stats", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats []models.TypeStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 2 {
		t.Errorf("stats = %+v, want one RUN entry with count 2", stats)
	}
}

// TestWorkoutTypes verifies the catalog endpoint.
func TestWorkoutTypes(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/workout-types", "", false)
	var types []training.TypeInfo
	if err := json.NewDecoder(rec.Body).Decode(&types); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(types) != 3 {
		t.Fatalf("types = %d, want 3", len(types))
	}
	if types[2].Code != "SWM" || types[2].Arity != 5 {
		t.Errorf("types[2] = %+v", types[2])
	}
}

// TestParseTimeRange verifies defaults and date-only end handling.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=2026-01-01&end=2026-01-31", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want end of 2026-01-31", end)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	start, end, err = parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := end.Sub(start); d.Hours() < 167 || d.Hours() > 169 {
		t.Errorf("default range = %v, want ~7 days", d)
	}

	req = httptest.NewRequest(http.MethodGet, "/?start=yesterday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Error("expected error for invalid start")
	}
}
