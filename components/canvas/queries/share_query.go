package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// ShareReportRequest mints a public link for the project's active report.
type ShareReportRequest struct {
	ProjectID int64 `json:"projectId"`
}

// ShareReportQuery creates a share link and returns it so transports can
// hand the token back to the caller. Unsaved canvases cannot be shared.
type ShareReportQuery struct {
	resolver CanvasResolver
}

// NewShareReportQuery builds the query.
func NewShareReportQuery(resolver CanvasResolver) *ShareReportQuery {
	return &ShareReportQuery{resolver: resolver}
}

var _ gocommand.Querier[ShareReportRequest, canvas.ShareLink] = (*ShareReportQuery)(nil)

// Query mints the share link.
func (q *ShareReportQuery) Query(ctx context.Context, req ShareReportRequest) (canvas.ShareLink, error) {
	session, err := q.resolver.Canvas(ctx, req.ProjectID)
	if err != nil {
		return canvas.ShareLink{}, err
	}
	return session.ShareReport(ctx)
}
