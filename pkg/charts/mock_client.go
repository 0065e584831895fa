package charts

import (
	"context"
	"sync"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// MockData seeds deterministic generation responses for tests or local demos.
type MockData struct {
	// Artifact is returned for every generation call when ArtifactFor is nil.
	Artifact canvas.ChartArtifact
	// ArtifactFor computes the artifact per request when set.
	ArtifactFor func(canvas.GenerateChartRequest) (canvas.ChartArtifact, error)
	// Columns maps column names to their unique values.
	Columns map[string][]string
}

// MockClient implements the chart generation surfaces using in-memory
// fixtures. It records every generation request so tests can assert which
// charts were regenerated and with what filters.
type MockClient struct {
	data  MockData
	mu    sync.Mutex
	calls []canvas.GenerateChartRequest
}

// NewMockClient builds a mock generation client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var (
	_ canvas.ChartGenerator = (*MockClient)(nil)
	_ canvas.ColumnService  = (*MockClient)(nil)
)

// GenerateChart returns the configured artifact and records the request.
func (c *MockClient) GenerateChart(_ context.Context, req canvas.GenerateChartRequest) (canvas.ChartArtifact, error) {
	c.mu.Lock()
	c.calls = append(c.calls, cloneRequest(req))
	c.mu.Unlock()
	if c.data.ArtifactFor != nil {
		return c.data.ArtifactFor(req)
	}
	return append(canvas.ChartArtifact(nil), c.data.Artifact...), nil
}

// UniqueValues returns the configured values for a column.
func (c *MockClient) UniqueValues(_ context.Context, _ int64, columnName string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.data.Columns[columnName]...), nil
}

// Calls returns a copy of the recorded generation requests.
func (c *MockClient) Calls() []canvas.GenerateChartRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]canvas.GenerateChartRequest, len(c.calls))
	for i, call := range c.calls {
		out[i] = cloneRequest(call)
	}
	return out
}

// Reset clears the recorded calls.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func cloneRequest(req canvas.GenerateChartRequest) canvas.GenerateChartRequest {
	out := req
	out.ColumnMapping = cloneMap(req.ColumnMapping)
	out.TuningParams = cloneMap(req.TuningParams)
	if req.Filters != nil {
		out.Filters = req.Filters.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
