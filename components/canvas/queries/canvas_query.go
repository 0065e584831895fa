package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// CanvasResolver hands queries the session for a project.
type CanvasResolver interface {
	Canvas(ctx context.Context, projectID int64) (*canvas.Session, error)
}

// CanvasRequest addresses a project's working canvas.
type CanvasRequest struct {
	ProjectID int64 `json:"projectId"`
}

// CanvasState is the full working-canvas payload served to editors.
type CanvasState struct {
	Title   string               `json:"title"`
	Active  *canvas.ReportRef    `json:"activeReport,omitempty"`
	Content canvas.ReportContent `json:"content"`
}

// CanvasQuery resolves the working canvas document.
type CanvasQuery struct {
	resolver CanvasResolver
}

// NewCanvasQuery builds the query.
func NewCanvasQuery(resolver CanvasResolver) *CanvasQuery {
	return &CanvasQuery{resolver: resolver}
}

var _ gocommand.Querier[CanvasRequest, CanvasState] = (*CanvasQuery)(nil)

// Query snapshots the project's canvas.
func (q *CanvasQuery) Query(ctx context.Context, req CanvasRequest) (CanvasState, error) {
	session, err := q.resolver.Canvas(ctx, req.ProjectID)
	if err != nil {
		return CanvasState{}, err
	}
	return CanvasState{
		Title:   session.Title(),
		Active:  session.ActiveReport(),
		Content: session.Content(),
	}, nil
}
