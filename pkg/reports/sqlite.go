package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

var (
	// ErrReportNotFound flags an unknown or foreign report id.
	ErrReportNotFound = errors.New("reports: report not found")
	// ErrDuplicateTitle flags a second report with the same title in a project.
	ErrDuplicateTitle = errors.New("reports: a report with this title already exists")
)

// schemaSQL is the DDL executed when creating a new report database.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id           TEXT PRIMARY KEY,
    project_id   INTEGER NOT NULL,
    title        TEXT NOT NULL,
    content_json TEXT NOT NULL,
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now')),
    UNIQUE(project_id, title)
);

CREATE TABLE IF NOT EXISTS share_links (
    token      TEXT PRIMARY KEY,
    report_id  TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
    is_active  INTEGER NOT NULL DEFAULT 1,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_project ON reports(project_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_share_links_report ON share_links(report_id);
`

// SQLiteStore persists reports and share links in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenDB opens (or creates) a SQLite database at filePath. It enables
// foreign keys and WAL journal mode.
func OpenDB(filePath string) (*sql.DB, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("reports: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("reports: open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("reports: enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("reports: set WAL mode: %w", err)
	}
	return db, nil
}

// NewSQLiteStore initializes the schema and wraps the connection.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("reports: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ canvas.ReportStore = (*SQLiteStore)(nil)

// Create inserts a new report with a fresh id.
func (s *SQLiteStore) Create(ctx context.Context, report canvas.Report) (canvas.Report, error) {
	content, err := json.Marshal(report.Content)
	if err != nil {
		return canvas.Report{}, fmt.Errorf("reports: encode content: %w", err)
	}
	report.ID = uuid.NewString()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, project_id, title, content_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID, report.ProjectID, report.Title, string(content),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return canvas.Report{}, ErrDuplicateTitle
		}
		return canvas.Report{}, fmt.Errorf("reports: insert: %w", err)
	}
	report.CreatedAt = now
	report.UpdatedAt = now
	return report, nil
}

// Update replaces an existing report's title and content.
func (s *SQLiteStore) Update(ctx context.Context, report canvas.Report) (canvas.Report, error) {
	content, err := json.Marshal(report.Content)
	if err != nil {
		return canvas.Report{}, fmt.Errorf("reports: encode content: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET title = ?, content_json = ?, updated_at = ?
		 WHERE id = ? AND project_id = ?`,
		report.Title, string(content), now.Format(time.RFC3339),
		report.ID, report.ProjectID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return canvas.Report{}, ErrDuplicateTitle
		}
		return canvas.Report{}, fmt.Errorf("reports: update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return canvas.Report{}, ErrReportNotFound
	}
	report.UpdatedAt = now
	return report, nil
}

// Get fetches a report by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (canvas.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, content_json, created_at, updated_at
		 FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

// List returns a project's reports, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context, projectID int64) ([]canvas.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, content_json, created_at, updated_at
		 FROM reports WHERE project_id = ? ORDER BY updated_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("reports: list: %w", err)
	}
	defer rows.Close()

	var reports []canvas.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Delete removes a report. Share links go with it via the cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("reports: delete: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// CreateShareLink mints an active token for a report. A report can carry
// multiple active links.
func (s *SQLiteStore) CreateShareLink(ctx context.Context, reportID string) (canvas.ShareLink, error) {
	link := canvas.ShareLink{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		ReportID:  reportID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (token, report_id, is_active, created_at)
		 VALUES (?, ?, 1, ?)`,
		link.Token, link.ReportID, link.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return canvas.ShareLink{}, ErrReportNotFound
		}
		return canvas.ShareLink{}, fmt.Errorf("reports: create share link: %w", err)
	}
	return link, nil
}

// RevokeShareLink deactivates a token without deleting its row, so revoked
// and unknown tokens resolve identically.
func (s *SQLiteStore) RevokeShareLink(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE share_links SET is_active = 0 WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("reports: revoke share link: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return canvas.ErrShareNotFound
	}
	return nil
}

// ReportByToken resolves an active share token to its report.
func (s *SQLiteStore) ReportByToken(ctx context.Context, token string) (canvas.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT r.id, r.project_id, r.title, r.content_json, r.created_at, r.updated_at
		 FROM reports r
		 JOIN share_links l ON l.report_id = r.id
		 WHERE l.token = ? AND l.is_active = 1`, token)
	report, err := scanReport(row)
	if errors.Is(err, ErrReportNotFound) {
		return canvas.Report{}, canvas.ErrShareNotFound
	}
	return report, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (canvas.Report, error) {
	var (
		report              canvas.Report
		content             string
		createdAt, updateAt string
	)
	err := row.Scan(&report.ID, &report.ProjectID, &report.Title, &content, &createdAt, &updateAt)
	if errors.Is(err, sql.ErrNoRows) {
		return canvas.Report{}, ErrReportNotFound
	}
	if err != nil {
		return canvas.Report{}, fmt.Errorf("reports: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(content), &report.Content); err != nil {
		return canvas.Report{}, fmt.Errorf("reports: decode content: %w", err)
	}
	report.CreatedAt = parseTimestamp(createdAt)
	report.UpdatedAt = parseTimestamp(updateAt)
	return report, nil
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
