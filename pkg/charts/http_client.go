package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// HTTPConfig configures the HTTP chart generation client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the remote statistics service that computes chart
// artifacts and column metadata.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the live generation service.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("charts: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var (
	_ canvas.ChartGenerator = (*HTTPClient)(nil)
	_ canvas.ColumnService  = (*HTTPClient)(nil)
)

type generateResponse struct {
	Artifact json.RawMessage `json:"chart_artifact"`
}

// GenerateChart implements canvas.ChartGenerator via the generation endpoint.
func (c *HTTPClient) GenerateChart(ctx context.Context, req canvas.GenerateChartRequest) (canvas.ChartArtifact, error) {
	var resp generateResponse
	if err := c.do(ctx, http.MethodPost, "/generate-chart/", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Artifact) == 0 {
		return nil, fmt.Errorf("charts: empty artifact in response")
	}
	return canvas.ChartArtifact(resp.Artifact), nil
}

type uniqueValuesResponse struct {
	Values []string `json:"values"`
}

// UniqueValues implements canvas.ColumnService via the column metadata
// endpoint.
func (c *HTTPClient) UniqueValues(ctx context.Context, projectID int64, columnName string) ([]string, error) {
	path := fmt.Sprintf("/projects/%d/unique-values?column=%s", projectID, url.QueryEscape(columnName))
	var resp uniqueValuesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var reqBody *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("charts: encode payload: %w", err)
		}
		reqBody = bytes.NewReader(body)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("charts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("charts: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("charts: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("charts: decode response: %w", err)
	}
	return nil
}
