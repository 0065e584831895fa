package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// PublicViewRequest resolves a share token.
type PublicViewRequest struct {
	Token string `json:"token"`
}

// PublicReportQuery serves the chart-only projection for an active share
// token. No authentication context is involved.
type PublicReportQuery struct {
	viewer *canvas.PublicViewer
}

// NewPublicReportQuery builds the query.
func NewPublicReportQuery(viewer *canvas.PublicViewer) *PublicReportQuery {
	return &PublicReportQuery{viewer: viewer}
}

var _ gocommand.Querier[PublicViewRequest, canvas.PublicReport] = (*PublicReportQuery)(nil)

// Query resolves the token.
func (q *PublicReportQuery) Query(ctx context.Context, req PublicViewRequest) (canvas.PublicReport, error) {
	if req.Token == "" {
		return canvas.PublicReport{}, errors.New("queries: share token is required")
	}
	return q.viewer.View(ctx, req.Token)
}
