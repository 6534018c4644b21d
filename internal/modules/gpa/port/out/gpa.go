package out

import (
	"context"

	"gpacalc/internal/modules/gpa/domain"
)

// ReportStore writes the markdown note of a report and returns its path.
// Remove undoes a Save whose export did not complete.
type ReportStore interface {
	Save(ctx context.Context, report domain.Report) (string, error)
	Remove(ctx context.Context, path string) error
}

// WorkbookWriter writes a spreadsheet rendition of a report and returns its path.
type WorkbookWriter interface {
	Write(ctx context.Context, report domain.Report) (string, error)
	Remove(ctx context.Context, path string) error
}

type ReportIndex interface {
	Upsert(ctx context.Context, summary domain.ReportSummary) error
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)
	Get(ctx context.Context, id string) (domain.ReportSummary, error)
}
