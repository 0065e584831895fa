package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	calls int
	err   error
}

func (r *stubRenderer) RenderArtifact(chartType string, _ ChartArtifact) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "<div class=\"" + chartType + "\"></div>", nil
}

func sharedReportStore(t *testing.T) (*fakeReportStore, string) {
	t.Helper()
	store := newFakeReportStore()
	report := Report{
		ProjectID: 1,
		Title:     "Q3 Review",
		Content: ReportContent{
			Pages: []PageContent{{
				ID:    1,
				Title: "Overview",
				Items: []Widget{
					&ChartWidget{ID: 10, ChartType: "bar", Artifact: ChartArtifact(`{"series":[{"name":"s","data":[1]}]}`)},
					&SlicerWidget{ID: 11, Kind: SlicerList, ColumnName: "region"},
					&TextWidget{ID: 12, Text: "notes"},
				},
				Layout: []LayoutEntry{
					{ID: 10, W: 6, H: 10},
					{ID: 11, X: 6, W: 3, H: 6},
					{ID: 12, X: 9, W: 3, H: 3},
				},
			}},
		},
	}
	saved, err := store.Create(context.Background(), report)
	require.NoError(t, err)
	link, err := store.CreateShareLink(context.Background(), saved.ID)
	require.NoError(t, err)
	return store, link.Token
}

func TestPublicViewProjectsChartsOnly(t *testing.T) {
	store, token := sharedReportStore(t)
	viewer := NewPublicViewer(store)

	public, err := viewer.View(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Q3 Review", public.Title)
	require.Len(t, public.Pages, 1)

	page := public.Pages[0]
	require.Len(t, page.Charts, 1, "slicers and text must not leak into the share view")
	assert.Equal(t, int64(10), page.Charts[0].ID)
	assert.Equal(t, "bar", page.Charts[0].ChartType)
	require.Len(t, page.Layout, 1)
	assert.Equal(t, int64(10), page.Layout[0].ID)
}

func TestPublicViewRendersHTML(t *testing.T) {
	store, token := sharedReportStore(t)
	renderer := &stubRenderer{}
	viewer := NewPublicViewer(store, WithArtifactRenderer(renderer))

	public, err := viewer.View(context.Background(), token)
	require.NoError(t, err)
	assert.Contains(t, public.Pages[0].Charts[0].HTML, "bar")
	assert.Equal(t, 1, renderer.calls)

	// identical artifact served from the render cache
	_, err = viewer.View(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
}

func TestPublicViewServesArtifactWhenRenderFails(t *testing.T) {
	store, token := sharedReportStore(t)
	renderer := &stubRenderer{err: errors.New("bad artifact")}
	viewer := NewPublicViewer(store, WithArtifactRenderer(renderer))

	public, err := viewer.View(context.Background(), token)
	require.NoError(t, err)
	chart := public.Pages[0].Charts[0]
	assert.Empty(t, chart.HTML)
	assert.NotEmpty(t, chart.Artifact, "raw artifact still ships on render failure")
}

func TestPublicViewUnknownToken(t *testing.T) {
	store, _ := sharedReportStore(t)
	viewer := NewPublicViewer(store)

	_, err := viewer.View(context.Background(), "nope")
	require.ErrorIs(t, err, ErrShareNotFound)
}

func TestPublicViewRevokedToken(t *testing.T) {
	store, token := sharedReportStore(t)
	require.NoError(t, store.RevokeShareLink(context.Background(), token))
	viewer := NewPublicViewer(store)

	_, err := viewer.View(context.Background(), token)
	require.ErrorIs(t, err, ErrShareNotFound)
}
