package queries_test

import (
	"context"
	"errors"
	"testing"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
	"github.com/goliatone/go-report-canvas/components/canvas/queries"
	"github.com/goliatone/go-report-canvas/pkg/charts"
	"github.com/goliatone/go-report-canvas/pkg/reports"
)

func newManager(store canvas.ReportStore, columns canvas.ColumnService) *canvas.Manager {
	var next int64 = 100
	return canvas.NewManager(canvas.Options{
		Store:   store,
		Columns: columns,
		IDSource: func() int64 {
			next++
			return next
		},
	})
}

func TestCanvasQuery(t *testing.T) {
	store := reports.NewMemoryStore()
	manager := newManager(store, nil)
	session, _ := manager.Canvas(context.Background(), 1)
	session.SetTitle("Working Copy")
	session.AddPage("Detail")

	state, err := queries.NewCanvasQuery(manager).Query(context.Background(), queries.CanvasRequest{ProjectID: 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if state.Title != "Working Copy" {
		t.Fatalf("unexpected title %q", state.Title)
	}
	if state.Active != nil {
		t.Fatal("unsaved canvas must have no active report")
	}
	if len(state.Content.Pages) != 2 || state.Content.CurrentPageIndex != 1 {
		t.Fatalf("unexpected content: %+v", state.Content)
	}
}

func TestListReportsQuery(t *testing.T) {
	store := reports.NewMemoryStore()
	manager := newManager(store, nil)
	session, _ := manager.Canvas(context.Background(), 1)
	session.SetTitle("Saved One")
	if _, err := session.SaveReport(context.Background()); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	list, err := queries.NewListReportsQuery(manager).Query(context.Background(), queries.ListReportsRequest{ProjectID: 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Saved One" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestShareReportQueryRequiresSave(t *testing.T) {
	manager := newManager(reports.NewMemoryStore(), nil)
	query := queries.NewShareReportQuery(manager)

	_, err := query.Query(context.Background(), queries.ShareReportRequest{ProjectID: 1})
	if !errors.Is(err, canvas.ErrUnsavedReport) {
		t.Fatalf("expected ErrUnsavedReport, got %v", err)
	}

	session, _ := manager.Canvas(context.Background(), 1)
	session.SetTitle("Shared")
	if _, err := session.SaveReport(context.Background()); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}
	link, err := query.Query(context.Background(), queries.ShareReportRequest{ProjectID: 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if link.Token == "" {
		t.Fatal("expected share token")
	}
}

func TestUniqueValuesQuery(t *testing.T) {
	columns := charts.NewMockClient(charts.MockData{
		Columns: map[string][]string{"region": {"EMEA", "APAC"}},
	})
	manager := newManager(reports.NewMemoryStore(), columns)
	query := queries.NewUniqueValuesQuery(manager)

	values, err := query.Query(context.Background(), queries.UniqueValuesRequest{ProjectID: 1, ColumnName: "region"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(values) != 2 || values[0] != "EMEA" {
		t.Fatalf("unexpected values: %v", values)
	}

	if _, err := query.Query(context.Background(), queries.UniqueValuesRequest{ProjectID: 1}); err == nil {
		t.Fatal("expected error for empty column name")
	}
}

func TestPublicReportQuery(t *testing.T) {
	store := reports.NewMemoryStore()
	saved, err := store.Create(context.Background(), canvas.Report{ProjectID: 1, Title: "Shared"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	link, err := store.CreateShareLink(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("CreateShareLink returned error: %v", err)
	}

	viewer := canvas.NewPublicViewer(store)
	query := queries.NewPublicReportQuery(viewer)

	report, err := query.Query(context.Background(), queries.PublicViewRequest{Token: link.Token})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if report.Title != "Shared" {
		t.Fatalf("unexpected title %q", report.Title)
	}

	if _, err := query.Query(context.Background(), queries.PublicViewRequest{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}
