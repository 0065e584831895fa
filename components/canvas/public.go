package canvas

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrShareNotFound flags a token that does not resolve to an active share.
// Revoked and unknown tokens are indistinguishable to callers.
var ErrShareNotFound = errors.New("canvas: share link not found")

// PublicPage is the chart-only projection of one page: slicers, column
// selectors, and text boxes never leave the owning session.
type PublicPage struct {
	ID     int64         `json:"id"`
	Title  string        `json:"title"`
	Charts []PublicChart `json:"charts"`
	Layout []LayoutEntry `json:"layout"`
}

// PublicChart carries a chart's stored artifact plus rendered HTML when a
// renderer is configured.
type PublicChart struct {
	ID        int64         `json:"i"`
	ChartType string        `json:"chartType"`
	Artifact  ChartArtifact `json:"chartArtifact,omitempty"`
	HTML      string        `json:"chartHtml,omitempty"`
}

// PublicReport is the read-only payload served for an active share token.
type PublicReport struct {
	Title     string       `json:"title"`
	Pages     []PublicPage `json:"pages"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ArtifactRenderer turns a stored chart artifact into embeddable HTML.
type ArtifactRenderer interface {
	RenderArtifact(chartType string, artifact ChartArtifact) (string, error)
}

// PublicViewer resolves share tokens into read-only report payloads.
type PublicViewer struct {
	store     ReportStore
	renderer  ArtifactRenderer
	cache     RenderCache
	telemetry Telemetry
}

// PublicViewerOption customizes the viewer.
type PublicViewerOption func(*PublicViewer)

// WithArtifactRenderer enables server-side chart HTML in public payloads.
func WithArtifactRenderer(r ArtifactRenderer) PublicViewerOption {
	return func(v *PublicViewer) { v.renderer = r }
}

// WithRenderCache injects a render cache for public chart HTML.
func WithRenderCache(cache RenderCache) PublicViewerOption {
	return func(v *PublicViewer) { v.cache = cache }
}

// WithPublicTelemetry records public view events.
func WithPublicTelemetry(t Telemetry) PublicViewerOption {
	return func(v *PublicViewer) { v.telemetry = t }
}

// NewPublicViewer builds a viewer over the report store.
func NewPublicViewer(store ReportStore, opts ...PublicViewerOption) *PublicViewer {
	v := &PublicViewer{
		store: store,
		cache: NewChartCache(5 * time.Minute),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.telemetry = normalizeTelemetry(v.telemetry)
	return v
}

// View resolves an active token to the chart-only projection of its report.
func (v *PublicViewer) View(ctx context.Context, token string) (PublicReport, error) {
	report, err := v.store.ReportByToken(ctx, token)
	if err != nil {
		return PublicReport{}, err
	}
	public := PublicReport{
		Title:     report.Title,
		UpdatedAt: report.UpdatedAt,
		Pages:     make([]PublicPage, 0, len(report.Content.Pages)),
	}
	for _, pc := range report.Content.Pages {
		public.Pages = append(public.Pages, v.projectPage(ctx, pc))
	}
	v.telemetry.Record(ctx, "canvas.public.view", map[string]any{
		"report_id": report.ID,
	})
	return public, nil
}

func (v *PublicViewer) projectPage(ctx context.Context, pc PageContent) PublicPage {
	page := PublicPage{
		ID:     pc.ID,
		Title:  pc.Title,
		Charts: []PublicChart{},
		Layout: []LayoutEntry{},
	}
	kept := make(map[int64]bool, len(pc.Items))
	for _, item := range pc.Items {
		chart, ok := item.(*ChartWidget)
		if !ok {
			continue
		}
		kept[chart.ID] = true
		entry := PublicChart{
			ID:        chart.ID,
			ChartType: chart.ChartType,
			Artifact:  chart.Artifact,
		}
		if v.renderer != nil && len(chart.Artifact) > 0 {
			html, err := v.renderHTML(chart)
			if err != nil {
				v.telemetry.Record(ctx, "canvas.public.render_failed", map[string]any{
					"chart_id": chart.ID,
					"error":    err.Error(),
				})
			} else {
				entry.HTML = html
			}
		}
		page.Charts = append(page.Charts, entry)
	}
	for _, entry := range pc.Layout {
		if kept[entry.ID] {
			page.Layout = append(page.Layout, entry)
		}
	}
	return page
}

func (v *PublicViewer) renderHTML(chart *ChartWidget) (string, error) {
	render := func() (string, error) {
		return v.renderer.RenderArtifact(chart.ChartType, chart.Artifact)
	}
	if v.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%d:%s:%s", chart.ID, chart.ChartType, artifactHash(chart.Artifact))
	return v.cache.GetOrRender(key, render)
}
