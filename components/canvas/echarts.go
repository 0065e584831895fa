package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// EChartsRenderer renders stored chart artifacts into server-side go-echarts
// markup for the public share view.
type EChartsRenderer struct {
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) { r.theme = theme }
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) { r.assetsHost = host }
}

// NewEChartsRenderer builds a renderer.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{theme: types.ThemeWesteros}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// chartArtifactDoc is the decoded form of a generation-service artifact.
type chartArtifactDoc struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	XAxis    []any  `json:"xAxis"`
	Series   []any  `json:"series"`
}

// RenderArtifact converts a serialized artifact into chart HTML.
func (r *EChartsRenderer) RenderArtifact(chartType string, artifact ChartArtifact) (string, error) {
	var doc chartArtifactDoc
	if err := json.Unmarshal(artifact, &doc); err != nil {
		return "", fmt.Errorf("canvas: decode chart artifact: %w", err)
	}
	series := parseChartSeries(doc.Series)
	if len(series) == 0 {
		return "", fmt.Errorf("canvas: chart artifact has no series")
	}
	xAxis := stringSliceValue(doc.XAxis)
	if len(xAxis) == 0 {
		xAxis = inferredAxisLabels(series)
	}
	switch strings.ToLower(chartType) {
	case "bar":
		return r.renderBarChart(doc.Title, doc.Subtitle, xAxis, series)
	case "line":
		return r.renderLineChart(doc.Title, doc.Subtitle, xAxis, series)
	case "pie":
		return r.renderPieChart(doc.Title, doc.Subtitle, series)
	case "scatter":
		return r.renderScatterChart(doc.Title, doc.Subtitle, series)
	default:
		return "", fmt.Errorf("canvas: unsupported chart type: %s", chartType)
	}
}

func (r *EChartsRenderer) renderBarChart(title, subtitle string, xAxis []string, series []chartSeries) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(title, subtitle)...)
	bar.SetXAxis(xAxis)
	for _, s := range series {
		bar.AddSeries(s.Name, toBarData(s.Points))
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderLineChart(title, subtitle string, xAxis []string, series []chartSeries) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(title, subtitle)...)
	line.SetXAxis(xAxis)
	for _, s := range series {
		line.AddSeries(s.Name, toLineData(s.Points))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderPieChart(title, subtitle string, series []chartSeries) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(title, subtitle)...)
	for _, s := range series {
		pie.AddSeries(s.Name, toPieData(s.Points))
	}
	return renderChart(pie)
}

func (r *EChartsRenderer) renderScatterChart(title, subtitle string, series []chartSeries) (string, error) {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(r.globalChartOptions(title, subtitle)...)
	for _, s := range series {
		scatter.AddSeries(s.Name, toScatterData(s.Points))
	}
	return renderChart(scatter)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toBarData(points []chartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []chartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []chartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func toScatterData(points []chartPoint) []opts.ScatterData {
	data := make([]opts.ScatterData, len(points))
	for i, point := range points {
		value := []float64{float64(i + 1), point.Value}
		if len(point.Pair) >= 2 {
			value = point.Pair[:2]
		}
		data[i] = opts.ScatterData{Name: point.Label, Value: value}
	}
	return data
}

// chartSeries represents a set of values plotted for a given legend entry.
type chartSeries struct {
	Name   string
	Points []chartPoint
}

// chartPoint represents an individual value (optionally labeled).
type chartPoint struct {
	Label string
	Value float64
	Pair  []float64
}

func parseChartSeries(items []any) []chartSeries {
	out := make([]chartSeries, 0, len(items))
	for _, item := range items {
		seriesMap, ok := item.(map[string]any)
		if !ok {
			continue
		}
		series := chartSeries{
			Name:   stringValue(seriesMap["name"], "Series"),
			Points: parseChartPoints(seriesMap["data"]),
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

func parseChartPoints(v any) []chartPoint {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	points := make([]chartPoint, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case float64:
			points = append(points, chartPoint{Value: val})
		case json.Number:
			points = append(points, chartPoint{Value: float64Value(val)})
		case []any:
			if len(val) >= 2 {
				points = append(points, chartPoint{
					Pair: []float64{float64Value(val[0]), float64Value(val[1])},
				})
			}
		case map[string]any:
			points = append(points, chartPoint{
				Label: stringValue(val["name"], ""),
				Value: float64Value(val["value"]),
				Pair:  pairFromMap(val),
			})
		}
	}
	return points
}

func pairFromMap(m map[string]any) []float64 {
	x, xOK := m["x"]
	y, yOK := m["y"]
	if !xOK || !yOK {
		return nil
	}
	return []float64{float64Value(x), float64Value(y)}
}

func inferredAxisLabels(series []chartSeries) []string {
	var candidate []string
	max := 0
	for _, s := range series {
		if len(s.Points) > max {
			max = len(s.Points)
			candidate = make([]string, len(s.Points))
			for i, point := range s.Points {
				if point.Label != "" {
					candidate[i] = point.Label
				} else {
					candidate[i] = fmt.Sprintf("Item %d", i+1)
				}
			}
		}
	}
	return candidate
}

func stringSliceValue(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}
