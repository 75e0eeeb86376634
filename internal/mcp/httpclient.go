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

	"github.com/meltforce/terrapump/internal/models"
)

// HTTPClient implements DataSource by calling the TerraPump REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
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

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, _ int) ([]models.WorkoutRecord, error) {
	params := url.Values{}
	params.Set("view", "full")

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var records []models.WorkoutRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) GetPreviousStats(ctx context.Context, _ int, key string) (*models.PreviousStats, error) {
	body, err := c.get(ctx, "/api/v1/stats/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var stats models.PreviousStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode previous stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) ListDailyEntries(ctx context.Context, _ int, from, to string) ([]models.DailyEntry, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)

	body, err := c.get(ctx, "/api/v1/entries", params)
	if err != nil {
		return nil, err
	}

	var entries []models.DailyEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode daily entries: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) ListBrands(ctx context.Context) ([]models.Brand, error) {
	body, err := c.get(ctx, "/api/v1/catalog/brands", nil)
	if err != nil {
		return nil, err
	}

	var brands []models.Brand
	if err := json.Unmarshal(body, &brands); err != nil {
		return nil, fmt.Errorf("httpclient: decode brands: %w", err)
	}
	return brands, nil
}

func (c *HTTPClient) ListMachines(ctx context.Context, brandID string) ([]models.Machine, error) {
	body, err := c.get(ctx, "/api/v1/catalog/brands/"+url.PathEscape(brandID)+"/machines", nil)
	if err != nil {
		return nil, err
	}

	var machines []models.Machine
	if err := json.Unmarshal(body, &machines); err != nil {
		return nil, fmt.Errorf("httpclient: decode machines: %w", err)
	}
	return machines, nil
}

func (c *HTTPClient) ListAttachments(ctx context.Context) ([]models.Attachment, error) {
	body, err := c.get(ctx, "/api/v1/catalog/attachments", nil)
	if err != nil {
		return nil, err
	}

	var attachments []models.Attachment
	if err := json.Unmarshal(body, &attachments); err != nil {
		return nil, fmt.Errorf("httpclient: decode attachments: %w", err)
	}
	return attachments, nil
}

func (c *HTTPClient) ListLibraryExercises(ctx context.Context) ([]models.LibraryExercise, error) {
	body, err := c.get(ctx, "/api/v1/catalog/library", nil)
	if err != nil {
		return nil, err
	}

	var library []models.LibraryExercise
	if err := json.Unmarshal(body, &library); err != nil {
		return nil, fmt.Errorf("httpclient: decode library: %w", err)
	}
	return library, nil
}
