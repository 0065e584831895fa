package canvas

import (
	"fmt"
	"sync"
)

// Tool describes one draggable toolbox entry.
type Tool struct {
	Code     string   `json:"code" yaml:"code"`
	Label    string   `json:"label" yaml:"label"`
	DataKind DataKind `json:"data_kind" yaml:"data_kind"`
	DefaultW int      `json:"default_w" yaml:"default_w"`
	DefaultH int      `json:"default_h" yaml:"default_h"`
	MinW     int      `json:"min_w,omitempty" yaml:"min_w,omitempty"`
	MinH     int      `json:"min_h,omitempty" yaml:"min_h,omitempty"`
}

// Toolbox codes shipped by default. Slicer codes double as the slicer kind.
const (
	ToolSlicerList     = string(SlicerList)
	ToolSlicerRange    = string(SlicerRange)
	ToolColumnSelector = "column_selector"
	ToolText           = "text"
)

// Toolbox holds the tools a canvas offers for drag-drop.
type Toolbox struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// DefaultTools returns the built-in toolbox entries.
func DefaultTools() []Tool {
	return []Tool{
		{Code: ToolSlicerList, Label: "List Slicer", DataKind: DataCategorical, DefaultW: 3, DefaultH: 6, MinW: 2, MinH: 2},
		{Code: ToolColumnSelector, Label: "Column Selector", DataKind: DataCategorical, DefaultW: 3, DefaultH: 6, MinW: 2, MinH: 2},
		{Code: ToolSlicerRange, Label: "Range Slicer", DataKind: DataNumerical, DefaultW: 3, DefaultH: 4, MinW: 2, MinH: 2},
		{Code: ToolText, Label: "Text Box", DefaultW: 3, DefaultH: 3, MinW: 2, MinH: 2},
	}
}

// NewToolbox builds a toolbox seeded with the default tools.
func NewToolbox() *Toolbox {
	tb := &Toolbox{tools: map[string]Tool{}}
	for _, tool := range DefaultTools() {
		_ = tb.Register(tool)
	}
	return tb
}

// Register adds or replaces a tool.
func (tb *Toolbox) Register(tool Tool) error {
	if tool.Code == "" {
		return fmt.Errorf("canvas: tool code is required")
	}
	if tool.DefaultW <= 0 {
		tool.DefaultW = 3
	}
	if tool.DefaultH <= 0 {
		tool.DefaultH = 3
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, exists := tb.tools[tool.Code]; !exists {
		tb.order = append(tb.order, tool.Code)
	}
	tb.tools[tool.Code] = tool
	return nil
}

// Tool fetches a tool by code.
func (tb *Toolbox) Tool(code string) (Tool, bool) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	tool, ok := tb.tools[code]
	return tool, ok
}

// Tools lists the registered tools in registration order.
func (tb *Toolbox) Tools() []Tool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	out := make([]Tool, 0, len(tb.order))
	for _, code := range tb.order {
		out = append(out, tb.tools[code])
	}
	return out
}

// DropEvent carries the toolbox tool and target grid coordinates of a drop.
type DropEvent struct {
	ToolCode string `json:"tool_code"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// Materialize turns a drop event into a widget/layout pair. Slicers start
// with no column picked; the user chooses one afterwards.
func (tb *Toolbox) Materialize(event DropEvent, id int64) (Widget, LayoutEntry, error) {
	tool, ok := tb.Tool(event.ToolCode)
	if !ok {
		return nil, LayoutEntry{}, fmt.Errorf("canvas: unknown tool %q", event.ToolCode)
	}
	layout := LayoutEntry{
		ID:   id,
		X:    event.X,
		Y:    event.Y,
		W:    tool.DefaultW,
		H:    tool.DefaultH,
		MinW: tool.MinW,
		MinH: tool.MinH,
	}
	if layout.MinW <= 0 {
		layout.MinW = 2
	}
	if layout.MinH <= 0 {
		layout.MinH = 2
	}

	var widget Widget
	switch tool.Code {
	case ToolText:
		widget = &TextWidget{ID: id}
	case ToolColumnSelector:
		widget = &ColumnSelectorWidget{ID: id, AvailableColumns: []string{}, LinkedChartIDs: []int64{}}
	case ToolSlicerList:
		widget = &SlicerWidget{ID: id, Kind: SlicerList, DataKind: tool.DataKind}
	case ToolSlicerRange:
		widget = &SlicerWidget{ID: id, Kind: SlicerRange, DataKind: tool.DataKind}
	default:
		// Custom manifest tools map onto slicers keyed by their data kind.
		kind := SlicerList
		if tool.DataKind == DataNumerical {
			kind = SlicerRange
		}
		widget = &SlicerWidget{ID: id, Kind: kind, DataKind: tool.DataKind}
	}
	return widget, layout, nil
}

// PlaceholderFor returns the transient layout entry inserted while a tool is
// being dragged over the grid.
func (tb *Toolbox) PlaceholderFor(code string) LayoutEntry {
	tool, ok := tb.Tool(code)
	if !ok {
		tool = Tool{DefaultW: 3, DefaultH: 3}
	}
	return LayoutEntry{ID: PlaceholderID, W: tool.DefaultW, H: tool.DefaultH}
}

// defaultChartLayout is the anchor placement used for imported charts and for
// cross-page moves that discard the source position.
func defaultChartLayout(id int64) LayoutEntry {
	return LayoutEntry{ID: id, X: 0, Y: 0, W: 6, H: 10, MinW: 3, MinH: 6}
}
