package canvas

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PlaceholderID is the reserved layout id used while a toolbox drag is in
// progress. It must never survive as a persisted layout entry.
const PlaceholderID int64 = -1

// LayoutEntry records a widget's placement on the fixed-column grid.
type LayoutEntry struct {
	ID     int64
	X      int
	Y      int
	W      int
	H      int
	MinW   int
	MinH   int
	Static bool
}

type layoutEntryJSON struct {
	I      string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	MinW   int    `json:"minW,omitempty"`
	MinH   int    `json:"minH,omitempty"`
	Static bool   `json:"static,omitempty"`
}

// MarshalJSON serializes the entry with its id as the string "i" key, the
// shape the grid layer and saved reports use.
func (e LayoutEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(layoutEntryJSON{
		I:      strconv.FormatInt(e.ID, 10),
		X:      e.X,
		Y:      e.Y,
		W:      e.W,
		H:      e.H,
		MinW:   e.MinW,
		MinH:   e.MinH,
		Static: e.Static,
	})
}

// UnmarshalJSON accepts both string and numeric "i" values.
func (e *LayoutEntry) UnmarshalJSON(data []byte) error {
	var raw layoutEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("canvas: decode layout entry: %w", err)
	}
	id, err := strconv.ParseInt(raw.I, 10, 64)
	if err != nil {
		return fmt.Errorf("canvas: layout entry id %q: %w", raw.I, err)
	}
	*e = LayoutEntry{
		ID:     id,
		X:      raw.X,
		Y:      raw.Y,
		W:      raw.W,
		H:      raw.H,
		MinW:   raw.MinW,
		MinH:   raw.MinH,
		Static: raw.Static,
	}
	return nil
}

// clampToFloors enforces the minimum-size floors recorded on the entry.
func (e LayoutEntry) clampToFloors() LayoutEntry {
	if e.MinW > 0 && e.W < e.MinW {
		e.W = e.MinW
	}
	if e.MinH > 0 && e.H < e.MinH {
		e.H = e.MinH
	}
	if e.X < 0 {
		e.X = 0
	}
	if e.Y < 0 {
		e.Y = 0
	}
	return e
}

type pagePair struct {
	widget Widget
	layout LayoutEntry
}

// Page owns one canvas surface. Widgets and their layout entries live in a
// single id-keyed arena so the items/layout pair can never drift apart; add,
// remove, and replace are the only mutators.
type Page struct {
	ID    int64
	Title string

	order       []int64
	pairs       map[int64]pagePair
	placeholder *LayoutEntry
}

// NewPage builds an empty page.
func NewPage(id int64, title string) *Page {
	return &Page{
		ID:    id,
		Title: title,
		pairs: make(map[int64]pagePair),
	}
}

// Len returns the widget count.
func (p *Page) Len() int { return len(p.order) }

// Widget looks up a widget by id.
func (p *Page) Widget(id int64) (Widget, bool) {
	pair, ok := p.pairs[id]
	if !ok {
		return nil, false
	}
	return pair.widget, true
}

// LayoutFor looks up the layout entry for a widget id.
func (p *Page) LayoutFor(id int64) (LayoutEntry, bool) {
	pair, ok := p.pairs[id]
	if !ok {
		return LayoutEntry{}, false
	}
	return pair.layout, true
}

// Add inserts a widget with its layout entry. The ids must match and be new
// to the page.
func (p *Page) Add(w Widget, layout LayoutEntry) error {
	if w == nil {
		return fmt.Errorf("canvas: widget is required")
	}
	if layout.ID != w.WidgetID() {
		return fmt.Errorf("canvas: layout id %d does not match widget id %d", layout.ID, w.WidgetID())
	}
	if layout.ID == PlaceholderID {
		return fmt.Errorf("canvas: widget id %d is reserved", PlaceholderID)
	}
	if _, exists := p.pairs[w.WidgetID()]; exists {
		return fmt.Errorf("canvas: widget %d already on page %q", w.WidgetID(), p.Title)
	}
	p.pairs[w.WidgetID()] = pagePair{widget: w, layout: layout.clampToFloors()}
	p.order = append(p.order, w.WidgetID())
	return nil
}

// Remove deletes the widget and its layout entry together. Returns false when
// the id is not on the page.
func (p *Page) Remove(id int64) bool {
	if _, ok := p.pairs[id]; !ok {
		return false
	}
	delete(p.pairs, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Replace swaps the widget value for an existing id, keeping its layout.
func (p *Page) Replace(w Widget) bool {
	pair, ok := p.pairs[w.WidgetID()]
	if !ok {
		return false
	}
	pair.widget = w
	p.pairs[w.WidgetID()] = pair
	return true
}

// ApplyLayout reconciles grid moves/resizes. Only x/y/w/h of entries already
// on the page are updated, clamped against the recorded min floors; widget
// existence never changes and unknown or placeholder ids are ignored.
func (p *Page) ApplyLayout(entries []LayoutEntry) {
	for _, entry := range entries {
		if entry.ID == PlaceholderID {
			continue
		}
		pair, ok := p.pairs[entry.ID]
		if !ok {
			continue
		}
		next := pair.layout
		next.X = entry.X
		next.Y = entry.Y
		next.W = entry.W
		next.H = entry.H
		pair.layout = next.clampToFloors()
		p.pairs[entry.ID] = pair
	}
}

// SetPlaceholder installs the transient drag placeholder.
func (p *Page) SetPlaceholder(entry LayoutEntry) {
	entry.ID = PlaceholderID
	p.placeholder = &entry
}

// ClearPlaceholder removes the drag placeholder unconditionally.
func (p *Page) ClearPlaceholder() { p.placeholder = nil }

// HasPlaceholder reports whether a drag is in progress on this page.
func (p *Page) HasPlaceholder() bool { return p.placeholder != nil }

// Items returns the widgets in insertion order.
func (p *Page) Items() []Widget {
	items := make([]Widget, 0, len(p.order))
	for _, id := range p.order {
		items = append(items, p.pairs[id].widget)
	}
	return items
}

// Layout returns the layout entries in insertion order, with the drag
// placeholder appended while one is active.
func (p *Page) Layout() []LayoutEntry {
	entries := make([]LayoutEntry, 0, len(p.order)+1)
	for _, id := range p.order {
		entries = append(entries, p.pairs[id].layout)
	}
	if p.placeholder != nil {
		entries = append(entries, *p.placeholder)
	}
	return entries
}

// NextFreeY returns the first row below every placed widget, for stacked
// default placement.
func (p *Page) NextFreeY() int {
	next := 0
	for _, id := range p.order {
		layout := p.pairs[id].layout
		if bottom := layout.Y + layout.H; bottom > next {
			next = bottom
		}
	}
	return next
}

func (p *Page) clone() *Page {
	out := NewPage(p.ID, p.Title)
	for _, id := range p.order {
		pair := p.pairs[id]
		out.pairs[id] = pagePair{widget: pair.widget.cloneWidget(), layout: pair.layout}
		out.order = append(out.order, id)
	}
	return out
}

// PageContent is the serialized form of a page. The placeholder entry is
// never part of it.
type PageContent struct {
	ID     int64         `json:"id"`
	Title  string        `json:"title"`
	Items  []Widget      `json:"-"`
	Layout []LayoutEntry `json:"layout"`
}

type pageContentJSON struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Items  []json.RawMessage `json:"items"`
	Layout []LayoutEntry     `json:"layout"`
}

// MarshalJSON encodes items through the widget envelope codec.
func (c PageContent) MarshalJSON() ([]byte, error) {
	raw := pageContentJSON{
		ID:     c.ID,
		Title:  c.Title,
		Items:  make([]json.RawMessage, 0, len(c.Items)),
		Layout: c.Layout,
	}
	if raw.Layout == nil {
		raw.Layout = []LayoutEntry{}
	}
	for _, item := range c.Items {
		data, err := MarshalWidget(item)
		if err != nil {
			return nil, err
		}
		raw.Items = append(raw.Items, data)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes items, defaulting missing arrays to empty so a
// damaged saved report stays openable. Items that fail to decode are dropped
// rather than failing the whole page.
func (c *PageContent) UnmarshalJSON(data []byte) error {
	var raw pageContentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("canvas: decode page: %w", err)
	}
	c.ID = raw.ID
	c.Title = raw.Title
	c.Items = make([]Widget, 0, len(raw.Items))
	for _, item := range raw.Items {
		w, err := UnmarshalWidget(item)
		if err != nil {
			continue
		}
		c.Items = append(c.Items, w)
	}
	c.Layout = raw.Layout
	if c.Layout == nil {
		c.Layout = []LayoutEntry{}
	}
	return nil
}

// Content snapshots the page into its serializable form.
func (p *Page) Content() PageContent {
	content := PageContent{
		ID:     p.ID,
		Title:  p.Title,
		Items:  make([]Widget, 0, len(p.order)),
		Layout: make([]LayoutEntry, 0, len(p.order)),
	}
	for _, id := range p.order {
		pair := p.pairs[id]
		content.Items = append(content.Items, pair.widget.cloneWidget())
		content.Layout = append(content.Layout, pair.layout)
	}
	return content
}

// pageFromContent rebuilds the arena from serialized content. Orphaned layout
// entries are dropped and unplaced widgets get a synthesized default entry,
// so the pair invariant holds by construction even for damaged input.
func pageFromContent(content PageContent) *Page {
	page := NewPage(content.ID, content.Title)
	layoutByID := make(map[int64]LayoutEntry, len(content.Layout))
	for _, entry := range content.Layout {
		if entry.ID == PlaceholderID {
			continue
		}
		layoutByID[entry.ID] = entry
	}
	for _, item := range content.Items {
		if item == nil {
			continue
		}
		layout, ok := layoutByID[item.WidgetID()]
		if !ok {
			layout = defaultChartLayout(item.WidgetID())
			layout.Y = page.NextFreeY()
		}
		_ = page.Add(item, layout)
	}
	return page
}
