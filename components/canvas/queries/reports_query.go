package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// ListReportsRequest addresses a project's saved reports.
type ListReportsRequest struct {
	ProjectID int64 `json:"projectId"`
}

// ListReportsQuery returns a project's saved reports, most recent first.
type ListReportsQuery struct {
	resolver CanvasResolver
}

// NewListReportsQuery builds the query.
func NewListReportsQuery(resolver CanvasResolver) *ListReportsQuery {
	return &ListReportsQuery{resolver: resolver}
}

var _ gocommand.Querier[ListReportsRequest, []canvas.Report] = (*ListReportsQuery)(nil)

// Query lists saved reports.
func (q *ListReportsQuery) Query(ctx context.Context, req ListReportsRequest) ([]canvas.Report, error) {
	session, err := q.resolver.Canvas(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	return session.ListReports(ctx)
}
