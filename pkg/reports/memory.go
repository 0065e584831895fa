package reports

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// MemoryStore is an in-memory ReportStore for tests and examples. It applies
// the same uniqueness and revocation rules as the SQLite store.
type MemoryStore struct {
	mu      sync.Mutex
	reports map[string]canvas.Report
	links   map[string]canvas.ShareLink
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]canvas.Report),
		links:   make(map[string]canvas.ShareLink),
	}
}

var _ canvas.ReportStore = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, report canvas.Report) (canvas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.titleTakenLocked(report.ProjectID, report.Title, "") {
		return canvas.Report{}, ErrDuplicateTitle
	}
	report.ID = uuid.NewString()
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	s.reports[report.ID] = cloneReport(report)
	return report, nil
}

func (s *MemoryStore) Update(_ context.Context, report canvas.Report) (canvas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.reports[report.ID]
	if !ok || existing.ProjectID != report.ProjectID {
		return canvas.Report{}, ErrReportNotFound
	}
	if s.titleTakenLocked(report.ProjectID, report.Title, report.ID) {
		return canvas.Report{}, ErrDuplicateTitle
	}
	report.CreatedAt = existing.CreatedAt
	report.UpdatedAt = time.Now().UTC()
	s.reports[report.ID] = cloneReport(report)
	return report, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (canvas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return canvas.Report{}, ErrReportNotFound
	}
	return cloneReport(report), nil
}

func (s *MemoryStore) List(_ context.Context, projectID int64) ([]canvas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []canvas.Report
	for _, report := range s.reports {
		if report.ProjectID == projectID {
			out = append(out, cloneReport(report))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrReportNotFound
	}
	delete(s.reports, id)
	for token, link := range s.links {
		if link.ReportID == id {
			delete(s.links, token)
		}
	}
	return nil
}

func (s *MemoryStore) CreateShareLink(_ context.Context, reportID string) (canvas.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[reportID]; !ok {
		return canvas.ShareLink{}, ErrReportNotFound
	}
	link := canvas.ShareLink{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		ReportID:  reportID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	s.links[link.Token] = link
	return link, nil
}

func (s *MemoryStore) RevokeShareLink(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[token]
	if !ok {
		return canvas.ErrShareNotFound
	}
	link.Active = false
	s.links[token] = link
	return nil
}

func (s *MemoryStore) ReportByToken(_ context.Context, token string) (canvas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[token]
	if !ok || !link.Active {
		return canvas.Report{}, canvas.ErrShareNotFound
	}
	report, ok := s.reports[link.ReportID]
	if !ok {
		return canvas.Report{}, canvas.ErrShareNotFound
	}
	return cloneReport(report), nil
}

func (s *MemoryStore) titleTakenLocked(projectID int64, title, excludeID string) bool {
	for id, report := range s.reports {
		if id == excludeID {
			continue
		}
		if report.ProjectID == projectID && strings.EqualFold(report.Title, title) {
			return true
		}
	}
	return false
}

// cloneReport deep-copies through the JSON codec so callers cannot mutate
// stored state.
func cloneReport(report canvas.Report) canvas.Report {
	data, err := json.Marshal(report)
	if err != nil {
		return report
	}
	var out canvas.Report
	if err := json.Unmarshal(data, &out); err != nil {
		return report
	}
	return out
}
