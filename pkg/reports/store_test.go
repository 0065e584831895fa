package reports

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-report-canvas/components/canvas"
)

func sampleReport(title string) canvas.Report {
	return canvas.Report{
		ProjectID: 1,
		Title:     title,
		Content: canvas.ReportContent{
			Pages: []canvas.PageContent{{
				ID:    1,
				Title: "Page 1",
				Items: []canvas.Widget{
					&canvas.ChartWidget{ID: 10, ChartType: "bar", Artifact: canvas.ChartArtifact(`{"series":[]}`)},
				},
				Layout: []canvas.LayoutEntry{{ID: 10, W: 6, H: 10}},
			}},
			Filters: canvas.FilterState{"region": {Categories: []string{"EMEA"}}},
		},
	}
}

func openStores(t *testing.T) map[string]canvas.ReportStore {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("OpenDB returned error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sqlite, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	return map[string]canvas.ReportStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := store.Create(ctx, sampleReport("Q3 Review"))
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			if saved.ID == "" {
				t.Fatal("expected generated id")
			}
			if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
				t.Fatal("expected timestamps on create")
			}

			got, err := store.Get(ctx, saved.ID)
			if err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			if got.Title != "Q3 Review" || got.ProjectID != 1 {
				t.Fatalf("unexpected report: %+v", got)
			}
			if len(got.Content.Pages) != 1 || len(got.Content.Pages[0].Items) != 1 {
				t.Fatalf("content not persisted: %+v", got.Content)
			}
			if got.Content.Filters["region"].Categories[0] != "EMEA" {
				t.Fatalf("filters not persisted: %+v", got.Content.Filters)
			}
		})
	}
}

func TestStoreRejectsDuplicateTitle(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, sampleReport("Taken")); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			if _, err := store.Create(ctx, sampleReport("Taken")); !errors.Is(err, ErrDuplicateTitle) {
				t.Fatalf("expected ErrDuplicateTitle, got %v", err)
			}

			other := sampleReport("Taken")
			other.ProjectID = 2
			if _, err := store.Create(ctx, other); err != nil {
				t.Fatalf("title uniqueness must be scoped per project: %v", err)
			}
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := store.Create(ctx, sampleReport("Draft"))
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}

			saved.Title = "Final"
			updated, err := store.Update(ctx, saved)
			if err != nil {
				t.Fatalf("Update returned error: %v", err)
			}
			if updated.Title != "Final" {
				t.Fatalf("title not updated: %+v", updated)
			}

			missing := sampleReport("Ghost")
			missing.ID = "no-such-id"
			if _, err := store.Update(ctx, missing); !errors.Is(err, ErrReportNotFound) {
				t.Fatalf("expected ErrReportNotFound, got %v", err)
			}
		})
	}
}

func TestStoreListScopedByProject(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, sampleReport("A")); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			other := sampleReport("B")
			other.ProjectID = 2
			if _, err := store.Create(ctx, other); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}

			list, err := store.List(ctx, 1)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(list) != 1 || list[0].Title != "A" {
				t.Fatalf("expected only project 1 reports, got %+v", list)
			}
		})
	}
}

func TestStoreShareLinkLifecycle(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := store.Create(ctx, sampleReport("Shared"))
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}

			link, err := store.CreateShareLink(ctx, saved.ID)
			if err != nil {
				t.Fatalf("CreateShareLink returned error: %v", err)
			}
			if link.Token == "" || !link.Active {
				t.Fatalf("expected active link, got %+v", link)
			}

			got, err := store.ReportByToken(ctx, link.Token)
			if err != nil {
				t.Fatalf("ReportByToken returned error: %v", err)
			}
			if got.ID != saved.ID {
				t.Fatalf("token resolved to wrong report: %s", got.ID)
			}

			if err := store.RevokeShareLink(ctx, link.Token); err != nil {
				t.Fatalf("RevokeShareLink returned error: %v", err)
			}
			if _, err := store.ReportByToken(ctx, link.Token); !errors.Is(err, canvas.ErrShareNotFound) {
				t.Fatalf("revoked token must fail, got %v", err)
			}
			if err := store.RevokeShareLink(ctx, "missing"); !errors.Is(err, canvas.ErrShareNotFound) {
				t.Fatalf("expected ErrShareNotFound, got %v", err)
			}
		})
	}
}

func TestStoreShareLinkRequiresReport(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.CreateShareLink(context.Background(), "no-such-id")
			if !errors.Is(err, ErrReportNotFound) {
				t.Fatalf("expected ErrReportNotFound, got %v", err)
			}
		})
	}
}

func TestStoreDeleteCascadesLinks(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := store.Create(ctx, sampleReport("Doomed"))
			if err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			link, err := store.CreateShareLink(ctx, saved.ID)
			if err != nil {
				t.Fatalf("CreateShareLink returned error: %v", err)
			}

			if err := store.Delete(ctx, saved.ID); err != nil {
				t.Fatalf("Delete returned error: %v", err)
			}
			if _, err := store.Get(ctx, saved.ID); !errors.Is(err, ErrReportNotFound) {
				t.Fatalf("expected ErrReportNotFound after delete, got %v", err)
			}
			if _, err := store.ReportByToken(ctx, link.Token); !errors.Is(err, canvas.ErrShareNotFound) {
				t.Fatalf("links must not survive their report, got %v", err)
			}
		})
	}
}
