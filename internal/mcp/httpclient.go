package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/fittracker/internal/models"
)

// HTTPClient implements DataSource by calling the fittracker REST API.
// Used when the MCP binary runs locally (stdio) and reports live on a
// remote server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func rangeParams(start, end time.Time) url.Values {
	return url.Values{
		"start": {start.UTC().Format(time.RFC3339)},
		"end":   {end.UTC().Format(time.RFC3339)},
	}
}

// QueryReports calls GET /api/v1/reports.
func (c *HTTPClient) QueryReports(ctx context.Context, start, end time.Time, code string) ([]models.ReportRow, error) {
	params := rangeParams(start, end)
	if code != "" {
		params.Set("type", code)
	}
	body, err := c.get(ctx, "/api/v1/reports", params)
	if err != nil {
		return nil, err
	}
	var rows []models.ReportRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode reports: %w", err)
	}
	return rows, nil
}

// GetReportStats calls GET /api/v1/reports/stats.
func (c *HTTPClient) GetReportStats(ctx context.Context, start, end time.Time) ([]models.TypeStats, error) {
	body, err := c.get(ctx, "/api/v1/reports/stats", rangeParams(start, end))
	if err != nil {
		return nil, err
	}
	var stats []models.TypeStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return stats, nil
}
