package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gpacalc/internal/modules/gpa/domain"
	gpaout "gpacalc/internal/modules/gpa/port/out"
	apperrors "gpacalc/internal/platform/errors"

	_ "modernc.org/sqlite"
)

var _ gpaout.ReportIndex = (*SQLiteReportIndex)(nil)

type SQLiteReportIndex struct {
	db *sql.DB
}

func NewSQLiteReportIndex(dbPath string) (*SQLiteReportIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteReportIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteReportIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteReportIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  label TEXT NOT NULL,
  created_at TEXT NOT NULL,
  cumulative_gpa REAL,
  total_credits REAL NOT NULL,
  total_quality_points REAL NOT NULL,
  contributing_slots INTEGER NOT NULL,
  note_path TEXT NOT NULL,
  workbook_path TEXT
);
CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	return nil
}

func (s *SQLiteReportIndex) Upsert(ctx context.Context, summary domain.ReportSummary) error {
	const stmt = `
INSERT INTO reports (id, label, created_at, cumulative_gpa, total_credits, total_quality_points, contributing_slots, note_path, workbook_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  label=excluded.label,
  created_at=excluded.created_at,
  cumulative_gpa=excluded.cumulative_gpa,
  total_credits=excluded.total_credits,
  total_quality_points=excluded.total_quality_points,
  contributing_slots=excluded.contributing_slots,
  note_path=excluded.note_path,
  workbook_path=excluded.workbook_path;
`
	cumulative := sql.NullFloat64{Float64: summary.CumulativeGPA, Valid: summary.CumulativeAvailable}
	_, err := s.db.ExecContext(ctx, stmt,
		summary.ID,
		summary.Label,
		summary.CreatedAt.UTC().Format(time.RFC3339Nano),
		cumulative,
		summary.TotalCredits,
		summary.TotalQualityPoints,
		summary.ContributingSlots,
		summary.NotePath,
		summary.WorkbookPath,
	)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

const selectReport = `
SELECT id, label, created_at, cumulative_gpa, total_credits, total_quality_points, contributing_slots, note_path, COALESCE(workbook_path, '')
FROM reports`

func (s *SQLiteReportIndex) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectReport+`
ORDER BY created_at DESC, id ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ReportSummary, 0, limit)
	for rows.Next() {
		item, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

func (s *SQLiteReportIndex) Get(ctx context.Context, id string) (domain.ReportSummary, error) {
	row := s.db.QueryRowContext(ctx, selectReport+` WHERE id = ?;`, id)
	item, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReportSummary{}, apperrors.ErrNotFound
	}
	return item, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (domain.ReportSummary, error) {
	var (
		item       domain.ReportSummary
		createdAt  string
		cumulative sql.NullFloat64
	)
	err := row.Scan(&item.ID, &item.Label, &createdAt, &cumulative, &item.TotalCredits, &item.TotalQualityPoints, &item.ContributingSlots, &item.NotePath, &item.WorkbookPath)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReportSummary{}, err
	}
	if err != nil {
		return domain.ReportSummary{}, fmt.Errorf("scan report: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.ReportSummary{}, fmt.Errorf("parse report created_at: %w", err)
	}
	item.CreatedAt = parsed
	item.CumulativeGPA = cumulative.Float64
	item.CumulativeAvailable = cumulative.Valid
	return item, nil
}
