package canvas

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	// ErrLastPage is returned when deleting the sole remaining page.
	ErrLastPage = errors.New("canvas: cannot delete the last remaining page")
	// ErrPageOutOfRange flags an invalid page index.
	ErrPageOutOfRange = errors.New("canvas: page index out of range")
	// ErrEmptyTitle rejects saving a report without a title.
	ErrEmptyTitle = errors.New("canvas: report title is required")
	// ErrUnsavedReport rejects operations that need a durable report id.
	ErrUnsavedReport = errors.New("canvas: report must be saved first")
	// ErrWidgetNotFound flags a widget id missing from the addressed page.
	ErrWidgetNotFound = errors.New("canvas: widget not found")
	// ErrAccessDenied surfaces an invalid session reported by storage. Once
	// seen, the canvas stops issuing further storage calls.
	ErrAccessDenied = errors.New("canvas: access denied")

	errMissingReportStore = errors.New("canvas: report store not configured")
)

var defaultPageTitle = regexp.MustCompile(`^Page \d+$`)

// DefaultReportTitle names a canvas that has not been saved yet.
const DefaultReportTitle = "New Dashboard"

// Options configures a Session. Collaborators are interfaces so applications
// can swap implementations without importing canvas internals.
type Options struct {
	ProjectID int64
	Store     ReportStore
	Generator ChartGenerator
	Columns   ColumnService
	Snapshots SnapshotStore
	Handoff   HandoffMailbox
	Toolbox   *Toolbox
	Telemetry Telemetry
	// IDSource mints widget and page ids. The default is time-based, which
	// is sufficient for a single-user session.
	IDSource func() int64
	// RefreshOnClear forces an unfiltered regeneration pass when the last
	// filter is cleared. Off by default: stale artifacts persist until the
	// next explicit generation.
	RefreshOnClear bool
}

// Session is the canvas state engine: pages, layout, filters, and the active
// report reference, with every mutation mirrored to the ephemeral snapshot
// store once the boot sequence completes.
type Session struct {
	mu   sync.Mutex
	opts Options

	title   string
	pages   []*Page
	current int
	filters FilterState
	active  *ReportRef

	ready      bool
	authFailed bool

	pendingImport *HandoffMessage
	inflight      sync.WaitGroup

	nextID func() int64
}

// NewSession builds a blank single-page canvas for the project. Call Start to
// run the boot sequence (snapshot restore, hand-off consumption) before use.
func NewSession(opts Options) *Session {
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Snapshots == nil {
		opts.Snapshots = NewMemorySnapshotStore()
	}
	if opts.Toolbox == nil {
		opts.Toolbox = NewToolbox()
	}
	s := &Session{
		opts:    opts,
		filters: FilterState{},
	}
	s.nextID = opts.IDSource
	if s.nextID == nil {
		s.nextID = timeIDSource()
	}
	s.resetLocked()
	return s
}

// timeIDSource mints strictly increasing time-based ids.
func timeIDSource() func() int64 {
	var mu sync.Mutex
	var last int64
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := time.Now().UnixNano()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}

// resetLocked restores the blank single-page canvas.
func (s *Session) resetLocked() {
	s.title = DefaultReportTitle
	s.pages = []*Page{NewPage(s.nextID(), "Page 1")}
	s.current = 0
	s.filters = FilterState{}
	s.active = nil
	s.pendingImport = nil
}

// Start runs the two-phase boot sequence: restore the ephemeral snapshot if
// one exists, mark the session ready (so the first snapshot write reflects
// the restored state), then consume and apply any pending chart hand-off.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.opts.Snapshots.Get(s.opts.ProjectID); ok {
		s.restoreSnapshotLocked(snap)
	}
	s.ready = true

	if s.opts.Handoff != nil {
		if msg, ok := s.opts.Handoff.Take(); ok {
			if msg.ProjectID == s.opts.ProjectID {
				s.pendingImport = &msg
			} else {
				s.record(ctx, "canvas.handoff.project_mismatch", map[string]any{
					"chart_id":   msg.ID,
					"project_id": msg.ProjectID,
				})
			}
		}
	}
	s.completeImportLocked(ctx)

	s.persistLocked()
	s.record(ctx, "canvas.session.start", map[string]any{
		"project_id": s.opts.ProjectID,
		"pages":      len(s.pages),
	})
}

func (s *Session) restoreSnapshotLocked(snap SessionSnapshot) {
	s.title = snap.Title
	if s.title == "" {
		s.title = DefaultReportTitle
	}
	s.applyContentLocked(snap.Content)
	s.active = nil
	if snap.Active != nil {
		ref := *snap.Active
		s.active = &ref
	}
}

// applyContentLocked replaces pages, index, and filters from serialized
// content, defaulting anything missing instead of failing.
func (s *Session) applyContentLocked(content ReportContent) {
	pages := make([]*Page, 0, len(content.Pages))
	for _, pc := range content.Pages {
		pages = append(pages, pageFromContent(pc))
	}
	if len(pages) == 0 {
		pages = []*Page{NewPage(s.nextID(), "Page 1")}
	}
	s.pages = pages
	s.current = clampIndex(content.CurrentPageIndex, len(pages))
	if content.Filters != nil {
		s.filters = content.Filters.Clone()
	} else {
		s.filters = FilterState{}
	}
}

// completeImportLocked is the deferred second phase of the hand-off: the
// widget and its layout are materialized together, on the page that is
// current once state is stable, anchored at the grid origin so the user can
// rearrange it deliberately.
func (s *Session) completeImportLocked(ctx context.Context) {
	if s.pendingImport == nil {
		return
	}
	msg := *s.pendingImport
	s.pendingImport = nil

	page := s.pages[s.current]
	if _, exists := page.Widget(msg.ID); exists {
		return
	}
	widget := &ChartWidget{
		ID:            msg.ID,
		ChartType:     msg.ChartType,
		ColumnMapping: msg.ColumnMapping,
		TuningParams:  msg.TuningParams,
		Artifact:      msg.Artifact,
	}
	if err := page.Add(widget, defaultChartLayout(msg.ID)); err != nil {
		return
	}
	s.record(ctx, "canvas.handoff.import", map[string]any{
		"chart_id":   msg.ID,
		"page_index": s.current,
	})
}

// persistLocked mirrors the canvas into the snapshot store. It runs on every
// mutation once the session is ready; before that the boot sequence owns the
// snapshot lifecycle.
func (s *Session) persistLocked() {
	if !s.ready || s.opts.Snapshots == nil {
		return
	}
	snap := SessionSnapshot{
		Title:   s.title,
		Content: s.contentLocked(),
	}
	if s.active != nil {
		ref := *s.active
		snap.Active = &ref
	}
	s.opts.Snapshots.Put(s.opts.ProjectID, snap)
}

func (s *Session) contentLocked() ReportContent {
	content := ReportContent{
		Pages:            make([]PageContent, 0, len(s.pages)),
		CurrentPageIndex: s.current,
		Filters:          s.filters.Clone(),
	}
	for _, page := range s.pages {
		content.Pages = append(content.Pages, page.Content())
	}
	return content
}

func (s *Session) record(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// ProjectID returns the project this canvas edits.
func (s *Session) ProjectID() int64 { return s.opts.ProjectID }

// Title returns the working report title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle updates the working report title.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = strings.TrimSpace(title)
	if s.title == "" {
		s.title = DefaultReportTitle
	}
	s.persistLocked()
}

// ActiveReport returns the saved report this canvas edits, or nil.
func (s *Session) ActiveReport() *ReportRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	ref := *s.active
	return &ref
}

// Content snapshots the full canvas document.
func (s *Session) Content() ReportContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentLocked()
}

// CurrentPageIndex returns the active page index.
func (s *Session) CurrentPageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentPage snapshots the active page.
func (s *Session) CurrentPage() PageContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[s.current].Content()
}

// PageCount returns the number of pages.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Page snapshots the page at index.
func (s *Session) Page(index int) (PageContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pages) {
		return PageContent{}, ErrPageOutOfRange
	}
	return s.pages[index].Content(), nil
}

// Filters returns a copy of the active filter state.
func (s *Session) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// ---------------------------------------------------------------------------
// Page operations
// ---------------------------------------------------------------------------

// AddPage appends a page and switches to it. An empty title gets the next
// default "Page <n>" name.
func (s *Session) AddPage(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Page %d", len(s.pages)+1)
	}
	s.pages = append(s.pages, NewPage(s.nextID(), title))
	s.current = len(s.pages) - 1
	s.persistLocked()
	return s.current
}

// RenamePage sets a page title.
func (s *Session) RenamePage(index int, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pages) {
		return ErrPageOutOfRange
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("canvas: page title is required")
	}
	s.pages[index].Title = title
	s.persistLocked()
	return nil
}

// DeletePage removes a page. Deleting the last remaining page is refused and
// leaves the canvas unchanged. Pages still carrying a default "Page <n>"
// title are renumbered sequentially; custom titles are left untouched.
func (s *Session) DeletePage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pages) {
		return ErrPageOutOfRange
	}
	if len(s.pages) <= 1 {
		return ErrLastPage
	}
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	renumberDefaultPages(s.pages)
	s.current = clampIndex(s.current, len(s.pages))
	s.persistLocked()
	return nil
}

// renumberDefaultPages keeps default page names monotonic after a deletion.
// Custom titles still advance the counter so later default names line up
// with their position.
func renumberDefaultPages(pages []*Page) {
	counter := 1
	for _, page := range pages {
		if defaultPageTitle.MatchString(page.Title) {
			page.Title = fmt.Sprintf("Page %d", counter)
		}
		counter++
	}
}

// SwitchPage changes the active page.
func (s *Session) SwitchPage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pages) {
		return ErrPageOutOfRange
	}
	s.current = index
	s.persistLocked()
	return nil
}

// ---------------------------------------------------------------------------
// Widget operations
// ---------------------------------------------------------------------------

// AddWidget places a widget/layout pair on a page in one atomic update.
func (s *Session) AddWidget(pageIndex int, w Widget, layout LayoutEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pageIndex < 0 || pageIndex >= len(s.pages) {
		return ErrPageOutOfRange
	}
	if err := s.pages[pageIndex].Add(w, layout); err != nil {
		return err
	}
	s.persistLocked()
	return nil
}

// RemoveWidget deletes a widget and its layout entry together.
func (s *Session) RemoveWidget(pageIndex int, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pageIndex < 0 || pageIndex >= len(s.pages) {
		return ErrPageOutOfRange
	}
	if !s.pages[pageIndex].Remove(id) {
		return ErrWidgetNotFound
	}
	s.persistLocked()
	return nil
}

// MoveWidget transfers a widget between pages. With preserveLayout the source
// placement travels along; otherwise a fresh default entry at the grid origin
// is synthesized.
func (s *Session) MoveWidget(id int64, fromPage, toPage int, preserveLayout bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fromPage < 0 || fromPage >= len(s.pages) || toPage < 0 || toPage >= len(s.pages) {
		return ErrPageOutOfRange
	}
	if fromPage == toPage {
		return fmt.Errorf("canvas: widget %d is already on page %d", id, toPage)
	}
	src := s.pages[fromPage]
	widget, ok := src.Widget(id)
	if !ok {
		return ErrWidgetNotFound
	}
	layout, _ := src.LayoutFor(id)
	if !preserveLayout {
		layout = defaultChartLayout(id)
	}
	if err := s.pages[toPage].Add(widget, layout); err != nil {
		return err
	}
	src.Remove(id)
	s.persistLocked()
	return nil
}

// MoveWidgetToNewPage creates a page and moves the widget onto it in one
// step, switching to the new page.
func (s *Session) MoveWidgetToNewPage(id int64, fromPage int, title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fromPage < 0 || fromPage >= len(s.pages) {
		return 0, ErrPageOutOfRange
	}
	src := s.pages[fromPage]
	widget, ok := src.Widget(id)
	if !ok {
		return 0, ErrWidgetNotFound
	}
	layout, _ := src.LayoutFor(id)
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Page %d", len(s.pages)+1)
	}
	page := NewPage(s.nextID(), title)
	if err := page.Add(widget, layout); err != nil {
		return 0, err
	}
	src.Remove(id)
	s.pages = append(s.pages, page)
	s.current = len(s.pages) - 1
	s.persistLocked()
	return s.current, nil
}

// UpdateLayout reconciles a grid change against the active page. Widget
// existence never changes here.
func (s *Session) UpdateLayout(pageIndex int, entries []LayoutEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pageIndex < 0 || pageIndex >= len(s.pages) {
		return ErrPageOutOfRange
	}
	s.pages[pageIndex].ApplyLayout(entries)
	s.persistLocked()
	return nil
}

// BeginToolDrag inserts the transient placeholder entry into the active
// page's layout while a toolbox drag is in progress.
func (s *Session) BeginToolDrag(toolCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[s.current].SetPlaceholder(s.opts.Toolbox.PlaceholderFor(toolCode))
}

// CancelToolDrag removes the placeholder without producing a widget.
func (s *Session) CancelToolDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.pages {
		page.ClearPlaceholder()
	}
}

// DropTool finishes a toolbox drag. The placeholder is removed
// unconditionally; a widget is only produced when the event names a tool.
func (s *Session) DropTool(event DropEvent) (Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.pages {
		page.ClearPlaceholder()
	}
	if event.ToolCode == "" {
		return nil, nil
	}
	widget, layout, err := s.opts.Toolbox.Materialize(event, s.nextID())
	if err != nil {
		return nil, err
	}
	if err := s.pages[s.current].Add(widget, layout); err != nil {
		return nil, err
	}
	s.persistLocked()
	return widget, nil
}

// UpdateText replaces a text widget's content on the active page.
func (s *Session) UpdateText(id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	widget, ok := s.pages[s.current].Widget(id)
	if !ok {
		return ErrWidgetNotFound
	}
	tw, ok := widget.(*TextWidget)
	if !ok {
		return fmt.Errorf("canvas: widget %d is not a text box", id)
	}
	tw.Text = text
	s.persistLocked()
	return nil
}

// SetSlicerColumn assigns the column a slicer filters on.
func (s *Session) SetSlicerColumn(id int64, columnName string, kind DataKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	widget, ok := s.pages[s.current].Widget(id)
	if !ok {
		return ErrWidgetNotFound
	}
	sw, ok := widget.(*SlicerWidget)
	if !ok {
		return fmt.Errorf("canvas: widget %d is not a slicer", id)
	}
	sw.ColumnName = columnName
	if kind != "" {
		sw.DataKind = kind
	}
	s.persistLocked()
	return nil
}

// ConfigureColumnSelector updates a column selector's available columns and
// linked chart set.
func (s *Session) ConfigureColumnSelector(id int64, available []string, linked []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	widget, ok := s.pages[s.current].Widget(id)
	if !ok {
		return ErrWidgetNotFound
	}
	cs, ok := widget.(*ColumnSelectorWidget)
	if !ok {
		return fmt.Errorf("canvas: widget %d is not a column selector", id)
	}
	cs.AvailableColumns = append([]string(nil), available...)
	cs.LinkedChartIDs = append([]int64(nil), linked...)
	s.persistLocked()
	return nil
}

// SlicerOptions fetches the unique values backing a categorical slicer.
func (s *Session) SlicerOptions(ctx context.Context, columnName string) ([]string, error) {
	if s.opts.Columns == nil {
		return nil, fmt.Errorf("canvas: column service not configured")
	}
	return s.opts.Columns.UniqueValues(ctx, s.opts.ProjectID, columnName)
}

// ---------------------------------------------------------------------------
// Durable report operations
// ---------------------------------------------------------------------------

// SaveReport persists the canvas: create when no report is active, otherwise
// update in place.
func (s *Session) SaveReport(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.title) == "" {
		return Report{}, ErrEmptyTitle
	}
	store, err := s.storeLocked()
	if err != nil {
		return Report{}, err
	}
	report := Report{
		ProjectID: s.opts.ProjectID,
		Title:     strings.TrimSpace(s.title),
		Content:   s.contentLocked(),
	}
	var saved Report
	if s.active != nil && s.active.ID != "" {
		report.ID = s.active.ID
		saved, err = store.Update(ctx, report)
	} else {
		saved, err = store.Create(ctx, report)
	}
	if err != nil {
		return Report{}, s.storeErrLocked(err)
	}
	s.active = &ReportRef{ID: saved.ID, Title: saved.Title}
	s.persistLocked()
	s.record(ctx, "canvas.report.save", map[string]any{"report_id": saved.ID})
	return saved, nil
}

// LoadReport replaces the entire canvas with a saved report's content.
func (s *Session) LoadReport(ctx context.Context, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, err := s.storeLocked()
	if err != nil {
		return err
	}
	report, err := store.Get(ctx, reportID)
	if err != nil {
		return s.storeErrLocked(err)
	}
	s.title = report.Title
	s.applyContentLocked(report.Content)
	s.active = &ReportRef{ID: report.ID, Title: report.Title}
	s.persistLocked()
	s.record(ctx, "canvas.report.load", map[string]any{"report_id": report.ID})
	return nil
}

// ListReports returns the project's saved reports, most recent first.
func (s *Session) ListReports(ctx context.Context) ([]Report, error) {
	s.mu.Lock()
	store, err := s.storeLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	reports, err := store.List(ctx, s.opts.ProjectID)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.storeErrLocked(err)
	}
	return reports, nil
}

// DeleteReport destroys the active saved report, invalidating its share
// links, and resets the canvas to a blank dashboard.
func (s *Session) DeleteReport(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.ID == "" {
		return ErrUnsavedReport
	}
	store, err := s.storeLocked()
	if err != nil {
		return err
	}
	id := s.active.ID
	if err := store.Delete(ctx, id); err != nil {
		return s.storeErrLocked(err)
	}
	s.newDashboardLocked()
	s.record(ctx, "canvas.report.delete", map[string]any{"report_id": id})
	return nil
}

// ShareReport returns a public read-only link for the active saved report.
// Unsaved canvases cannot be shared.
func (s *Session) ShareReport(ctx context.Context) (ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.ID == "" {
		return ShareLink{}, ErrUnsavedReport
	}
	store, err := s.storeLocked()
	if err != nil {
		return ShareLink{}, err
	}
	link, err := store.CreateShareLink(ctx, s.active.ID)
	if err != nil {
		return ShareLink{}, s.storeErrLocked(err)
	}
	s.record(ctx, "canvas.report.share", map[string]any{
		"report_id": link.ReportID,
	})
	return link, nil
}

// NewDashboard clears the ephemeral snapshot and resets the canvas to a
// blank, unsaved single-page state.
func (s *Session) NewDashboard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newDashboardLocked()
}

func (s *Session) newDashboardLocked() {
	if s.opts.Snapshots != nil {
		s.opts.Snapshots.Clear(s.opts.ProjectID)
	}
	s.resetLocked()
	s.persistLocked()
}

func (s *Session) storeLocked() (ReportStore, error) {
	if s.opts.Store == nil {
		return nil, errMissingReportStore
	}
	if s.authFailed {
		return nil, ErrAccessDenied
	}
	return s.opts.Store, nil
}

// storeErrLocked latches auth failures so the session stops issuing storage
// calls afterwards.
func (s *Session) storeErrLocked(err error) error {
	if errors.Is(err, ErrAccessDenied) {
		s.authFailed = true
	}
	return err
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
