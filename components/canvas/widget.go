package canvas

import (
	"encoding/json"
	"fmt"
)

// WidgetType discriminates the closed set of widget variants. The string
// values match the persisted wire format.
type WidgetType string

const (
	WidgetChart          WidgetType = "chart"
	WidgetSlicer         WidgetType = "slicer"
	WidgetColumnSelector WidgetType = "column_selector"
	WidgetText           WidgetType = "text"
)

// SlicerKind selects the slicer control style.
type SlicerKind string

const (
	SlicerList  SlicerKind = "slicer_list"
	SlicerRange SlicerKind = "slicer_range"
)

// DataKind classifies the column a widget filters on.
type DataKind string

const (
	DataCategorical DataKind = "categorical"
	DataNumerical   DataKind = "numerical"
)

// Widget is the closed sum of canvas widget variants. The unexported method
// keeps the set sealed so every consumer switches exhaustively.
type Widget interface {
	WidgetID() int64
	Type() WidgetType
	cloneWidget() Widget
}

// ChartWidget holds a generated chart and the inputs needed to regenerate it.
type ChartWidget struct {
	ID            int64
	ChartType     string
	ColumnMapping map[string]any
	TuningParams  map[string]any
	Artifact      ChartArtifact
}

func (w *ChartWidget) WidgetID() int64  { return w.ID }
func (w *ChartWidget) Type() WidgetType { return WidgetChart }

func (w *ChartWidget) cloneWidget() Widget {
	out := &ChartWidget{
		ID:            w.ID,
		ChartType:     w.ChartType,
		ColumnMapping: cloneAnyMap(w.ColumnMapping),
		TuningParams:  cloneAnyMap(w.TuningParams),
	}
	if len(w.Artifact) > 0 {
		out.Artifact = append(ChartArtifact(nil), w.Artifact...)
	}
	return out
}

// SlicerWidget filters a single column. ColumnName stays empty until the user
// picks one; an unpicked slicer contributes nothing to the filter state.
type SlicerWidget struct {
	ID         int64
	Kind       SlicerKind
	ColumnName string
	DataKind   DataKind
}

func (w *SlicerWidget) WidgetID() int64  { return w.ID }
func (w *SlicerWidget) Type() WidgetType { return WidgetSlicer }

func (w *SlicerWidget) cloneWidget() Widget {
	out := *w
	return &out
}

// ColumnSelectorWidget is the meta-filter: its checked columns are substituted
// into the column mapping of every linked chart.
type ColumnSelectorWidget struct {
	ID               int64
	AvailableColumns []string
	LinkedChartIDs   []int64
}

func (w *ColumnSelectorWidget) WidgetID() int64  { return w.ID }
func (w *ColumnSelectorWidget) Type() WidgetType { return WidgetColumnSelector }

func (w *ColumnSelectorWidget) cloneWidget() Widget {
	return &ColumnSelectorWidget{
		ID:               w.ID,
		AvailableColumns: append([]string(nil), w.AvailableColumns...),
		LinkedChartIDs:   append([]int64(nil), w.LinkedChartIDs...),
	}
}

// TextWidget is a static annotation with no data dependency.
type TextWidget struct {
	ID   int64
	Text string
}

func (w *TextWidget) WidgetID() int64  { return w.ID }
func (w *TextWidget) Type() WidgetType { return WidgetText }

func (w *TextWidget) cloneWidget() Widget {
	out := *w
	return &out
}

// widgetEnvelope is the persisted shape shared by every variant.
type widgetEnvelope struct {
	ID       int64      `json:"i"`
	ItemType WidgetType `json:"itemType"`

	// chart
	ChartType     string         `json:"chartType,omitempty"`
	ColumnMapping map[string]any `json:"columnMapping,omitempty"`
	TuningParams  map[string]any `json:"tuningParams,omitempty"`
	Artifact      ChartArtifact  `json:"chartArtifact,omitempty"`

	// slicer
	SlicerKind SlicerKind `json:"slicerType,omitempty"`
	ColumnName string     `json:"columnName,omitempty"`
	DataKind   DataKind   `json:"dataType,omitempty"`

	// column selector
	Config *columnSelectorConfig `json:"config,omitempty"`

	// text
	Text string `json:"text,omitempty"`
}

type columnSelectorConfig struct {
	AvailableColumns []string `json:"availableColumns"`
	LinkedChartIDs   []int64  `json:"linkedCharts"`
}

// MarshalWidget encodes a widget with its itemType discriminator.
func MarshalWidget(w Widget) ([]byte, error) {
	env, err := envelopeFor(w)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func envelopeFor(w Widget) (widgetEnvelope, error) {
	switch v := w.(type) {
	case *ChartWidget:
		return widgetEnvelope{
			ID:            v.ID,
			ItemType:      WidgetChart,
			ChartType:     v.ChartType,
			ColumnMapping: v.ColumnMapping,
			TuningParams:  v.TuningParams,
			Artifact:      v.Artifact,
		}, nil
	case *SlicerWidget:
		return widgetEnvelope{
			ID:         v.ID,
			ItemType:   WidgetSlicer,
			SlicerKind: v.Kind,
			ColumnName: v.ColumnName,
			DataKind:   v.DataKind,
		}, nil
	case *ColumnSelectorWidget:
		return widgetEnvelope{
			ID:       v.ID,
			ItemType: WidgetColumnSelector,
			Config: &columnSelectorConfig{
				AvailableColumns: emptyIfNil(v.AvailableColumns),
				LinkedChartIDs:   emptyInt64IfNil(v.LinkedChartIDs),
			},
		}, nil
	case *TextWidget:
		return widgetEnvelope{
			ID:       v.ID,
			ItemType: WidgetText,
			Text:     v.Text,
		}, nil
	default:
		return widgetEnvelope{}, fmt.Errorf("canvas: unknown widget variant %T", w)
	}
}

// UnmarshalWidget decodes a widget envelope into its concrete variant.
func UnmarshalWidget(data []byte) (Widget, error) {
	var env widgetEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("canvas: decode widget: %w", err)
	}
	return env.widget()
}

func (env widgetEnvelope) widget() (Widget, error) {
	switch env.ItemType {
	case WidgetChart:
		return &ChartWidget{
			ID:            env.ID,
			ChartType:     env.ChartType,
			ColumnMapping: env.ColumnMapping,
			TuningParams:  env.TuningParams,
			Artifact:      env.Artifact,
		}, nil
	case WidgetSlicer:
		return &SlicerWidget{
			ID:         env.ID,
			Kind:       env.SlicerKind,
			ColumnName: env.ColumnName,
			DataKind:   env.DataKind,
		}, nil
	case WidgetColumnSelector:
		w := &ColumnSelectorWidget{ID: env.ID}
		if env.Config != nil {
			w.AvailableColumns = env.Config.AvailableColumns
			w.LinkedChartIDs = env.Config.LinkedChartIDs
		}
		return w, nil
	case WidgetText:
		return &TextWidget{ID: env.ID, Text: env.Text}, nil
	default:
		return nil, fmt.Errorf("canvas: unknown widget type %q", env.ItemType)
	}
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneAnyMap(nested)
			continue
		}
		if list, ok := v.([]any); ok {
			out[k] = append([]any(nil), list...)
			continue
		}
		if list, ok := v.([]string); ok {
			out[k] = append([]string(nil), list...)
			continue
		}
		out[k] = v
	}
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyInt64IfNil(in []int64) []int64 {
	if in == nil {
		return []int64{}
	}
	return in
}
