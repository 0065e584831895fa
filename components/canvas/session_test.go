package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeGenerator struct {
	mu       sync.Mutex
	calls    []GenerateChartRequest
	artifact ChartArtifact
	err      error
}

func (g *fakeGenerator) GenerateChart(_ context.Context, req GenerateChartRequest) (ChartArtifact, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if g.artifact != nil {
		return append(ChartArtifact(nil), g.artifact...), nil
	}
	return ChartArtifact(`{"series":[{"name":"s","data":[1]}]}`), nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) requests() []GenerateChartRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GenerateChartRequest(nil), g.calls...)
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports map[string]Report
	links   map[string]ShareLink
	nextID  int
	err     error
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{
		reports: make(map[string]Report),
		links:   make(map[string]ShareLink),
	}
}

func (s *fakeReportStore) Create(_ context.Context, report Report) (Report, error) {
	if s.err != nil {
		return Report{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	report.ID = fmt.Sprintf("report-%d", s.nextID)
	s.reports[report.ID] = report
	return report, nil
}

func (s *fakeReportStore) Update(_ context.Context, report Report) (Report, error) {
	if s.err != nil {
		return Report{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.ID]; !ok {
		return Report{}, errors.New("not found")
	}
	s.reports[report.ID] = report
	return report, nil
}

func (s *fakeReportStore) Get(_ context.Context, id string) (Report, error) {
	if s.err != nil {
		return Report{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return Report{}, errors.New("not found")
	}
	return report, nil
}

func (s *fakeReportStore) List(_ context.Context, projectID int64) ([]Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Report
	for _, report := range s.reports {
		if report.ProjectID == projectID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (s *fakeReportStore) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

func (s *fakeReportStore) CreateShareLink(_ context.Context, reportID string) (ShareLink, error) {
	if s.err != nil {
		return ShareLink{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link := ShareLink{Token: fmt.Sprintf("token-%s", reportID), ReportID: reportID, Active: true}
	s.links[link.Token] = link
	return link, nil
}

func (s *fakeReportStore) RevokeShareLink(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[token]
	if !ok {
		return ErrShareNotFound
	}
	link.Active = false
	s.links[token] = link
	return nil
}

func (s *fakeReportStore) ReportByToken(_ context.Context, token string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[token]
	if !ok || !link.Active {
		return Report{}, ErrShareNotFound
	}
	report, ok := s.reports[link.ReportID]
	if !ok {
		return Report{}, ErrShareNotFound
	}
	return report, nil
}

func sequentialIDs(start int64) func() int64 {
	var mu sync.Mutex
	next := start
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := next
		next++
		return id
	}
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.ProjectID == 0 {
		opts.ProjectID = 1
	}
	if opts.IDSource == nil {
		opts.IDSource = sequentialIDs(100)
	}
	session := NewSession(opts)
	session.Start(context.Background())
	return session
}

func addChart(t *testing.T, s *Session, page int, id int64) {
	t.Helper()
	chart := &ChartWidget{
		ID:            id,
		ChartType:     "bar",
		ColumnMapping: map[string]any{"x": "region"},
		Artifact:      ChartArtifact(`{"old":true}`),
	}
	if err := s.AddWidget(page, chart, defaultChartLayout(id)); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
}

func TestSessionStartsWithSinglePage(t *testing.T) {
	session := newTestSession(t, Options{})
	if session.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", session.PageCount())
	}
	if session.Title() != DefaultReportTitle {
		t.Fatalf("expected default title, got %q", session.Title())
	}
	if session.CurrentPage().Title != "Page 1" {
		t.Fatalf("expected default page title, got %q", session.CurrentPage().Title)
	}
}

func TestDeleteLastPageIsRefused(t *testing.T) {
	session := newTestSession(t, Options{})
	addChart(t, session, 0, 10)

	err := session.DeletePage(0)
	if !errors.Is(err, ErrLastPage) {
		t.Fatalf("expected ErrLastPage, got %v", err)
	}
	if session.PageCount() != 1 || session.CurrentPage().Items[0].WidgetID() != 10 {
		t.Fatal("refused delete must leave the canvas unchanged")
	}
}

func TestDeletePageRenumbersDefaultTitles(t *testing.T) {
	session := newTestSession(t, Options{})
	session.AddPage("")       // Page 2
	session.AddPage("Custom") // custom title
	session.AddPage("")       // Page 4

	if err := session.DeletePage(1); err != nil {
		t.Fatalf("DeletePage returned error: %v", err)
	}

	titles := make([]string, session.PageCount())
	for i := range titles {
		page, _ := session.Page(i)
		titles[i] = page.Title
	}
	want := []string{"Page 1", "Custom", "Page 3"}
	for i, title := range want {
		if titles[i] != title {
			t.Fatalf("expected titles %v, got %v", want, titles)
		}
	}
}

func TestDeletePageClampsCurrentIndex(t *testing.T) {
	session := newTestSession(t, Options{})
	session.AddPage("")
	session.AddPage("")
	if session.CurrentPageIndex() != 2 {
		t.Fatalf("expected current page 2, got %d", session.CurrentPageIndex())
	}
	if err := session.DeletePage(2); err != nil {
		t.Fatalf("DeletePage returned error: %v", err)
	}
	if session.CurrentPageIndex() != 1 {
		t.Fatalf("expected clamp to 1, got %d", session.CurrentPageIndex())
	}
}

func TestMoveWidgetPreservesArtifactWithoutRegeneration(t *testing.T) {
	gen := &fakeGenerator{}
	session := newTestSession(t, Options{Generator: gen})
	session.AddPage("")
	addChart(t, session, 0, 10)

	if err := session.MoveWidget(10, 0, 1, true); err != nil {
		t.Fatalf("MoveWidget returned error: %v", err)
	}
	session.Flush()

	if gen.callCount() != 0 {
		t.Fatalf("move must not trigger regeneration, got %d calls", gen.callCount())
	}
	page, _ := session.Page(1)
	chart := page.Items[0].(*ChartWidget)
	if string(chart.Artifact) != `{"old":true}` {
		t.Fatalf("artifact lost on move: %s", chart.Artifact)
	}
	if entry := page.Layout[0]; entry.W != 6 || entry.H != 10 {
		t.Fatalf("layout not preserved: %+v", entry)
	}
	source, _ := session.Page(0)
	if len(source.Items) != 0 {
		t.Fatal("widget still on source page")
	}
}

func TestMoveWidgetToNewPageSwitches(t *testing.T) {
	session := newTestSession(t, Options{})
	addChart(t, session, 0, 10)

	index, err := session.MoveWidgetToNewPage(10, 0, "")
	if err != nil {
		t.Fatalf("MoveWidgetToNewPage returned error: %v", err)
	}
	if index != 1 || session.CurrentPageIndex() != 1 {
		t.Fatalf("expected switch to new page 1, got index %d current %d", index, session.CurrentPageIndex())
	}
	if session.CurrentPage().Items[0].WidgetID() != 10 {
		t.Fatal("widget missing from new page")
	}
}

func TestSetFilterRegeneratesOnlyActivePageCharts(t *testing.T) {
	gen := &fakeGenerator{artifact: ChartArtifact(`{"fresh":true}`)}
	session := newTestSession(t, Options{Generator: gen})
	session.AddPage("")
	addChart(t, session, 0, 10) // page 0
	addChart(t, session, 1, 11) // page 1
	if err := session.SwitchPage(0); err != nil {
		t.Fatalf("SwitchPage returned error: %v", err)
	}

	err := session.SetFilter(context.Background(), "region", FilterValue{Categories: []string{"EMEA"}})
	if err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}
	session.Flush()

	reqs := gen.requests()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one generation call, got %d", len(reqs))
	}
	if got := reqs[0].Filters["region"].Categories; len(got) != 1 || got[0] != "EMEA" {
		t.Fatalf("filter state not forwarded: %+v", reqs[0].Filters)
	}

	page, _ := session.Page(0)
	chart := page.Items[0].(*ChartWidget)
	if string(chart.Artifact) != `{"fresh":true}` {
		t.Fatalf("artifact not merged: %s", chart.Artifact)
	}
	other, _ := session.Page(1)
	if string(other.Items[0].(*ChartWidget).Artifact) != `{"old":true}` {
		t.Fatal("inactive page chart must keep its artifact")
	}
}

func TestSetFilterIgnoresEmptyColumn(t *testing.T) {
	gen := &fakeGenerator{}
	session := newTestSession(t, Options{Generator: gen})
	addChart(t, session, 0, 10)

	err := session.SetFilter(context.Background(), "", FilterValue{Categories: []string{"x"}})
	if err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}
	session.Flush()

	if gen.callCount() != 0 {
		t.Fatalf("unassigned slicer must be inert, got %d calls", gen.callCount())
	}
	if len(session.Filters()) != 0 {
		t.Fatalf("filter state must stay empty, got %v", session.Filters())
	}
}

func TestClearAllFiltersSkipsRegenerationByDefault(t *testing.T) {
	gen := &fakeGenerator{}
	session := newTestSession(t, Options{Generator: gen})
	addChart(t, session, 0, 10)
	_ = session.SetFilter(context.Background(), "region", FilterValue{Categories: []string{"EMEA"}})
	session.Flush()
	before := gen.callCount()

	session.ClearAllFilters(context.Background())
	session.Flush()

	if gen.callCount() != before {
		t.Fatalf("clear-all must not regenerate, got %d extra calls", gen.callCount()-before)
	}
	if len(session.Filters()) != 0 {
		t.Fatal("filters not cleared")
	}
}

func TestClearAllFiltersRegeneratesWhenOptedIn(t *testing.T) {
	gen := &fakeGenerator{}
	session := newTestSession(t, Options{Generator: gen, RefreshOnClear: true})
	addChart(t, session, 0, 10)
	_ = session.SetFilter(context.Background(), "region", FilterValue{Categories: []string{"EMEA"}})
	session.Flush()
	before := gen.callCount()

	session.ClearAllFilters(context.Background())
	session.Flush()

	if gen.callCount() != before+1 {
		t.Fatalf("expected one refresh call, got %d", gen.callCount()-before)
	}
	reqs := gen.requests()
	if len(reqs[len(reqs)-1].Filters) != 0 {
		t.Fatal("refresh after clear must carry empty filters")
	}
}

func TestApplyColumnSelectionTargetsOnlyLinkedCharts(t *testing.T) {
	gen := &fakeGenerator{artifact: ChartArtifact(`{"new":true}`)}
	session := newTestSession(t, Options{Generator: gen})
	addChart(t, session, 0, 10)
	addChart(t, session, 0, 11)
	selector := &ColumnSelectorWidget{
		ID:               12,
		AvailableColumns: []string{"region", "plan"},
		LinkedChartIDs:   []int64{10},
	}
	if err := session.AddWidget(0, selector, LayoutEntry{ID: 12, W: 3, H: 6}); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}

	err := session.ApplyColumnSelection(context.Background(), 12, []string{"region"})
	if err != nil {
		t.Fatalf("ApplyColumnSelection returned error: %v", err)
	}

	// mapping mutates synchronously, before regeneration completes
	page, _ := session.Page(0)
	for _, item := range page.Items {
		chart, ok := item.(*ChartWidget)
		if !ok {
			continue
		}
		_, hasColumns := chart.ColumnMapping["columns"]
		if chart.ID == 10 && !hasColumns {
			t.Fatal("linked chart mapping not updated")
		}
		if chart.ID == 11 && hasColumns {
			t.Fatal("unlinked chart mapping must not change")
		}
	}

	session.Flush()
	if gen.callCount() != 1 {
		t.Fatalf("expected one targeted regeneration, got %d", gen.callCount())
	}
	page, _ = session.Page(0)
	for _, item := range page.Items {
		chart, ok := item.(*ChartWidget)
		if !ok {
			continue
		}
		if chart.ID == 10 && string(chart.Artifact) != `{"new":true}` {
			t.Fatalf("linked chart artifact not refreshed: %s", chart.Artifact)
		}
		if chart.ID == 11 && string(chart.Artifact) != `{"old":true}` {
			t.Fatalf("unlinked chart artifact must survive: %s", chart.Artifact)
		}
	}
}

func TestGenerationFailureKeepsOldArtifact(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend down")}
	session := newTestSession(t, Options{Generator: gen})
	addChart(t, session, 0, 10)

	_ = session.SetFilter(context.Background(), "region", FilterValue{Categories: []string{"EMEA"}})
	session.Flush()

	page, _ := session.Page(0)
	if string(page.Items[0].(*ChartWidget).Artifact) != `{"old":true}` {
		t.Fatal("failed regeneration must keep the previous artifact")
	}
}

func TestMergeArtifactSkipsRemovedWidget(t *testing.T) {
	session := newTestSession(t, Options{})
	addChart(t, session, 0, 10)
	if err := session.RemoveWidget(0, 10); err != nil {
		t.Fatalf("RemoveWidget returned error: %v", err)
	}

	session.mergeArtifact(10, ChartArtifact(`{"late":true}`))

	page, _ := session.Page(0)
	if len(page.Items) != 0 {
		t.Fatal("late artifact must not resurrect a removed widget")
	}
}

func TestSaveRequiresTitle(t *testing.T) {
	store := newFakeReportStore()
	session := newTestSession(t, Options{Store: store})
	session.mu.Lock()
	session.title = "   "
	session.mu.Unlock()

	if _, err := session.SaveReport(context.Background()); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := newFakeReportStore()
	session := newTestSession(t, Options{Store: store})
	session.SetTitle("Q3 Review")
	addChart(t, session, 0, 10)
	session.AddPage("Detail")
	_ = session.SetFilter(context.Background(), "region", FilterValue{Categories: []string{"EMEA"}})
	session.Flush()

	saved, err := session.SaveReport(context.Background())
	if err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected report id after save")
	}
	want := session.Content()

	session.NewDashboard()
	if session.PageCount() != 1 || session.ActiveReport() != nil {
		t.Fatal("NewDashboard must reset to a blank unsaved canvas")
	}

	if err := session.LoadReport(context.Background(), saved.ID); err != nil {
		t.Fatalf("LoadReport returned error: %v", err)
	}
	got := session.Content()
	if len(got.Pages) != len(want.Pages) || got.CurrentPageIndex != want.CurrentPageIndex {
		t.Fatalf("content mismatch after load: want %d pages index %d, got %d pages index %d",
			len(want.Pages), want.CurrentPageIndex, len(got.Pages), got.CurrentPageIndex)
	}
	if got.Filters["region"].Categories[0] != "EMEA" {
		t.Fatalf("filters lost on load: %v", got.Filters)
	}
	active := session.ActiveReport()
	if active == nil || active.ID != saved.ID {
		t.Fatalf("expected active report %s, got %+v", saved.ID, active)
	}
}

func TestSecondSaveUpdatesInPlace(t *testing.T) {
	store := newFakeReportStore()
	session := newTestSession(t, Options{Store: store})
	session.SetTitle("Report A")

	first, err := session.SaveReport(context.Background())
	if err != nil {
		t.Fatalf("first save returned error: %v", err)
	}
	addChart(t, session, 0, 10)
	second, err := session.SaveReport(context.Background())
	if err != nil {
		t.Fatalf("second save returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second save must update in place: %s vs %s", first.ID, second.ID)
	}
	if len(store.reports) != 1 {
		t.Fatalf("expected a single stored report, got %d", len(store.reports))
	}
}

func TestShareRequiresSavedReport(t *testing.T) {
	store := newFakeReportStore()
	session := newTestSession(t, Options{Store: store})

	if _, err := session.ShareReport(context.Background()); !errors.Is(err, ErrUnsavedReport) {
		t.Fatalf("expected ErrUnsavedReport, got %v", err)
	}

	session.SetTitle("Shared")
	if _, err := session.SaveReport(context.Background()); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}
	link, err := session.ShareReport(context.Background())
	if err != nil {
		t.Fatalf("ShareReport returned error: %v", err)
	}
	if link.Token == "" || !link.Active {
		t.Fatalf("expected active share link, got %+v", link)
	}
}

func TestAccessDeniedLatches(t *testing.T) {
	store := newFakeReportStore()
	store.err = ErrAccessDenied
	session := newTestSession(t, Options{Store: store})
	session.SetTitle("Locked")

	if _, err := session.SaveReport(context.Background()); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	store.err = nil
	if _, err := session.SaveReport(context.Background()); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("session must stop issuing storage calls after denial, got %v", err)
	}
}

func TestStartRestoresSnapshot(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	first := newTestSession(t, Options{Snapshots: snapshots, IDSource: sequentialIDs(100)})
	first.SetTitle("Draft")
	addChart(t, first, 0, 10)
	first.AddPage("Second")

	second := NewSession(Options{ProjectID: 1, Snapshots: snapshots, IDSource: sequentialIDs(500)})
	second.Start(context.Background())

	if second.Title() != "Draft" {
		t.Fatalf("title not restored, got %q", second.Title())
	}
	if second.PageCount() != 2 || second.CurrentPageIndex() != 1 {
		t.Fatalf("pages not restored: %d pages, index %d", second.PageCount(), second.CurrentPageIndex())
	}
	page, _ := second.Page(0)
	if len(page.Items) != 1 || page.Items[0].WidgetID() != 10 {
		t.Fatalf("widgets not restored: %+v", page.Items)
	}
}

func TestStartConsumesHandoff(t *testing.T) {
	mailbox := NewMailbox()
	mailbox.Publish(HandoffMessage{
		ID:        42,
		ProjectID: 1,
		ChartType: "pie",
		Artifact:  ChartArtifact(`{"imported":true}`),
	})
	session := newTestSession(t, Options{Handoff: mailbox})

	page := session.CurrentPage()
	if len(page.Items) != 1 {
		t.Fatalf("expected imported chart, got %d items", len(page.Items))
	}
	chart := page.Items[0].(*ChartWidget)
	if chart.ID != 42 || chart.ChartType != "pie" {
		t.Fatalf("import fields lost: %+v", chart)
	}
	entry := page.Layout[0]
	if entry.X != 0 || entry.Y != 0 || entry.W != 6 || entry.H != 10 {
		t.Fatalf("import must anchor at the grid origin, got %+v", entry)
	}
	if _, ok := mailbox.Take(); ok {
		t.Fatal("hand-off must be consumed exactly once")
	}
}

func TestStartSkipsHandoffForOtherProject(t *testing.T) {
	mailbox := NewMailbox()
	mailbox.Publish(HandoffMessage{ID: 42, ProjectID: 2, ChartType: "pie"})
	session := newTestSession(t, Options{ProjectID: 1, Handoff: mailbox})

	if len(session.CurrentPage().Items) != 0 {
		t.Fatal("foreign-project chart must not be imported")
	}
	if _, ok := mailbox.Take(); ok {
		t.Fatal("mismatched hand-off is still consumed")
	}
}

func TestStartSkipsDuplicateHandoff(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	first := newTestSession(t, Options{Snapshots: snapshots})
	addChart(t, first, 0, 42)

	mailbox := NewMailbox()
	mailbox.Publish(HandoffMessage{ID: 42, ProjectID: 1, ChartType: "pie"})
	second := NewSession(Options{ProjectID: 1, Snapshots: snapshots, Handoff: mailbox, IDSource: sequentialIDs(600)})
	second.Start(context.Background())

	page := second.CurrentPage()
	if len(page.Items) != 1 {
		t.Fatalf("duplicate import must be skipped, got %d items", len(page.Items))
	}
	if page.Items[0].(*ChartWidget).ChartType != "bar" {
		t.Fatal("existing widget must win over the duplicate import")
	}
}

func TestDropToolMaterializesWidget(t *testing.T) {
	session := newTestSession(t, Options{})
	session.BeginToolDrag(ToolSlicerList)
	if !session.pages[0].HasPlaceholder() {
		t.Fatal("expected placeholder during drag")
	}

	widget, err := session.DropTool(DropEvent{ToolCode: ToolSlicerList, X: 2, Y: 0})
	if err != nil {
		t.Fatalf("DropTool returned error: %v", err)
	}
	slicer, ok := widget.(*SlicerWidget)
	if !ok {
		t.Fatalf("expected slicer, got %T", widget)
	}
	if slicer.ColumnName != "" {
		t.Fatal("new slicer must start without a column")
	}
	if session.pages[0].HasPlaceholder() {
		t.Fatal("placeholder must clear on drop")
	}
	entry, _ := session.pages[0].LayoutFor(slicer.ID)
	if entry.X != 2 {
		t.Fatalf("drop position lost: %+v", entry)
	}
}

func TestDropToolWithoutCodeOnlyClearsPlaceholder(t *testing.T) {
	session := newTestSession(t, Options{})
	session.BeginToolDrag(ToolText)

	widget, err := session.DropTool(DropEvent{})
	if err != nil {
		t.Fatalf("DropTool returned error: %v", err)
	}
	if widget != nil {
		t.Fatalf("expected no widget, got %T", widget)
	}
	if session.pages[0].HasPlaceholder() {
		t.Fatal("placeholder must clear on cancelled drop")
	}
}

func TestUpdateTextRejectsWrongWidgetKind(t *testing.T) {
	session := newTestSession(t, Options{})
	addChart(t, session, 0, 10)

	if err := session.UpdateText(10, "nope"); err == nil {
		t.Fatal("expected error updating text on a chart")
	}
}

func TestSlicerColumnRepick(t *testing.T) {
	session := newTestSession(t, Options{})
	widget := &SlicerWidget{ID: 10, Kind: SlicerList, ColumnName: "region", DataKind: DataCategorical}
	if err := session.AddWidget(0, widget, LayoutEntry{ID: 10, W: 3, H: 6}); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}

	if err := session.SetSlicerColumn(10, "plan", DataCategorical); err != nil {
		t.Fatalf("SetSlicerColumn returned error: %v", err)
	}
	page := session.CurrentPage()
	if page.Items[0].(*SlicerWidget).ColumnName != "plan" {
		t.Fatal("slicer column not updated")
	}
}
