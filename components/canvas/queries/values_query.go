package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// UniqueValuesRequest fetches the distinct values of a project column, used
// to populate list slicer options.
type UniqueValuesRequest struct {
	ProjectID  int64  `json:"projectId"`
	ColumnName string `json:"columnName"`
}

// UniqueValuesQuery resolves slicer options through the column service.
type UniqueValuesQuery struct {
	resolver CanvasResolver
}

// NewUniqueValuesQuery builds the query.
func NewUniqueValuesQuery(resolver CanvasResolver) *UniqueValuesQuery {
	return &UniqueValuesQuery{resolver: resolver}
}

var _ gocommand.Querier[UniqueValuesRequest, []string] = (*UniqueValuesQuery)(nil)

// Query fetches distinct column values.
func (q *UniqueValuesQuery) Query(ctx context.Context, req UniqueValuesRequest) ([]string, error) {
	if req.ColumnName == "" {
		return nil, errors.New("queries: column name is required")
	}
	session, err := q.resolver.Canvas(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	return session.SlicerOptions(ctx, req.ColumnName)
}
