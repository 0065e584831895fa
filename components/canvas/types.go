package canvas

import (
	"context"
	"encoding/json"
	"time"
)

// ReportStore is the durable persistence collaborator. Implementations handle
// report CRUD and share-link bookkeeping; the canvas never touches storage
// details directly.
type ReportStore interface {
	Create(ctx context.Context, report Report) (Report, error)
	Update(ctx context.Context, report Report) (Report, error)
	Get(ctx context.Context, id string) (Report, error)
	List(ctx context.Context, projectID int64) ([]Report, error)
	Delete(ctx context.Context, id string) error
	CreateShareLink(ctx context.Context, reportID string) (ShareLink, error)
	RevokeShareLink(ctx context.Context, token string) error
	ReportByToken(ctx context.Context, token string) (Report, error)
}

// ChartGenerator regenerates chart artifacts through the external statistics
// service. Errors are per-chart and non-fatal.
type ChartGenerator interface {
	GenerateChart(ctx context.Context, req GenerateChartRequest) (ChartArtifact, error)
}

// ColumnService backs categorical slicer option lists.
type ColumnService interface {
	UniqueValues(ctx context.Context, projectID int64, columnName string) ([]string, error)
}

// SnapshotStore mirrors the in-progress canvas per project. Lifetime is the
// process; contents are replaced wholesale on every write.
type SnapshotStore interface {
	Put(projectID int64, snap SessionSnapshot)
	Get(projectID int64) (SessionSnapshot, bool)
	Clear(projectID int64)
}

// HandoffMailbox carries a chart built in the visualization workflow into the
// canvas. Take removes the message, so it is consumed at most once.
type HandoffMailbox interface {
	Publish(msg HandoffMessage)
	Take() (HandoffMessage, bool)
}

// Telemetry records canvas events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// GenerateChartRequest is the payload for one regeneration call.
type GenerateChartRequest struct {
	ProjectID     int64          `json:"project_id"`
	ChartType     string         `json:"chart_type"`
	ColumnMapping map[string]any `json:"columns"`
	TuningParams  map[string]any `json:"tuning_params,omitempty"`
	Filters       FilterState    `json:"filters,omitempty"`
}

// ChartArtifact is the opaque renderable value produced by the chart
// generation service. The canvas stores and forwards it without inspecting
// its structure; only the public share renderer attempts to interpret it.
type ChartArtifact = json.RawMessage

// Report is the durable, named, multi-page artifact.
type Report struct {
	ID        string        `json:"id"`
	ProjectID int64         `json:"project_id"`
	Title     string        `json:"title"`
	Content   ReportContent `json:"content"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
	UpdatedAt time.Time     `json:"updated_at,omitempty"`
}

// ReportContent is the serialized canvas document exchanged on save/load and
// consumed (chart-only) by the public share view.
type ReportContent struct {
	Pages            []PageContent `json:"pages"`
	CurrentPageIndex int           `json:"currentPageIndex"`
	Filters          FilterState   `json:"filters,omitempty"`
}

// ReportRef identifies the saved report a session is editing, if any.
type ReportRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ShareLink grants public read-only access to a saved report.
type ShareLink struct {
	Token     string    `json:"token"`
	ReportID  string    `json:"report_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HandoffMessage is the one-shot import payload for an externally built chart.
type HandoffMessage struct {
	ID            int64          `json:"id"`
	ProjectID     int64          `json:"project_id"`
	ChartType     string         `json:"chart_type"`
	Artifact      ChartArtifact  `json:"chart_artifact,omitempty"`
	ColumnMapping map[string]any `json:"column_mapping,omitempty"`
	TuningParams  map[string]any `json:"tuning_params,omitempty"`
}

// SessionSnapshot is the ephemeral mirror of an in-progress canvas.
type SessionSnapshot struct {
	Title   string        `json:"title"`
	Active  *ReportRef    `json:"active,omitempty"`
	Content ReportContent `json:"content"`
}
