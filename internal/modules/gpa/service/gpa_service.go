package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gpacalc/internal/modules/gpa/domain"
	gpaout "gpacalc/internal/modules/gpa/port/out"
	"gpacalc/internal/platform/clock"
	"gpacalc/internal/platform/id"
	"gpacalc/internal/platform/tx"
)

type GPAService struct {
	clock     clock.Clock
	idGen     id.Generator
	logger    log.Logger
	notes     gpaout.ReportStore
	workbooks gpaout.WorkbookWriter
	index     gpaout.ReportIndex
}

func NewGPAService(clock clock.Clock, idGen id.Generator, logger log.Logger, notes gpaout.ReportStore, workbooks gpaout.WorkbookWriter, index gpaout.ReportIndex) *GPAService {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &GPAService{clock: clock, idGen: idGen, logger: logger, notes: notes, workbooks: workbooks, index: index}
}

// Calculate aggregates a snapshot of the store. Slots that do not parse are
// dropped silently and are not logged.
func (s *GPAService) Calculate(_ context.Context, store domain.EntryStore) domain.AggregateResult {
	result := domain.Aggregate(store)
	_ = level.Info(s.logger).Log(
		"msg", "calculated",
		"contributing", result.Contributing(),
		"total_credits", domain.FormatCredits(result.TotalCredits),
		"total_points", domain.FormatPoints(result.TotalQualityPoints),
		"cumulative_gpa", domain.FormatGPA(result.CumulativeGPA, result.CumulativeAvailable),
	)
	return result
}

// Export writes the markdown note, then the workbook when requested, then
// records the summary in the index. Each written file is registered for
// rollback, so a tx.Journal around Export removes it if a later step fails.
func (s *GPAService) Export(ctx context.Context, label string, formats []domain.ReportFormat, store domain.EntryStore) (domain.Report, error) {
	if s.notes == nil || s.index == nil {
		return domain.Report{}, fmt.Errorf("report adapters are not configured")
	}
	withWorkbook := wantsFormat(formats, domain.ReportFormatXLSX)
	if withWorkbook && s.workbooks == nil {
		return domain.Report{}, fmt.Errorf("workbook writer is not configured")
	}
	report := domain.Report{
		ID:        s.idGen.New(),
		Label:     strings.TrimSpace(label),
		CreatedAt: s.clock.Now(),
		Result:    s.Calculate(ctx, store),
	}
	if err := report.Validate(); err != nil {
		return domain.Report{}, err
	}

	notePath, err := s.notes.Save(ctx, report)
	if err != nil {
		return domain.Report{}, err
	}
	report.NotePath = notePath
	tx.OnRollback(ctx, func(ctx context.Context) error {
		_ = level.Warn(s.logger).Log("msg", "export rolled back", "report_id", report.ID, "note", notePath)
		return s.notes.Remove(ctx, notePath)
	})

	if withWorkbook {
		workbookPath, err := s.workbooks.Write(ctx, report)
		if err != nil {
			return domain.Report{}, err
		}
		report.WorkbookPath = workbookPath
		tx.OnRollback(ctx, func(ctx context.Context) error {
			return s.workbooks.Remove(ctx, workbookPath)
		})
	}

	if err := s.index.Upsert(ctx, report.Summary()); err != nil {
		return domain.Report{}, err
	}
	_ = level.Info(s.logger).Log("msg", "exported", "report_id", report.ID, "note", report.NotePath, "workbook", report.WorkbookPath)
	return report, nil
}

func (s *GPAService) ListReports(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	if s.index == nil {
		return nil, fmt.Errorf("report index is not configured")
	}
	return s.index.List(ctx, limit)
}

func (s *GPAService) GetReport(ctx context.Context, id string) (domain.ReportSummary, error) {
	if s.index == nil {
		return domain.ReportSummary{}, fmt.Errorf("report index is not configured")
	}
	return s.index.Get(ctx, id)
}

func wantsFormat(formats []domain.ReportFormat, want domain.ReportFormat) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}
