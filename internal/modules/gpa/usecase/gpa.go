package usecase

import (
	"context"
	"fmt"
	"strings"

	"gpacalc/internal/modules/gpa/domain"
	gpadto "gpacalc/internal/modules/gpa/dto"
	gpain "gpacalc/internal/modules/gpa/port/in"
	"gpacalc/internal/modules/gpa/service"
	apperrors "gpacalc/internal/platform/errors"
	"gpacalc/internal/platform/tx"
)

type Interactor struct {
	svc *service.GPAService
	tx  tx.Manager
}

func NewInteractor(svc *service.GPAService, txManager tx.Manager) gpain.Usecase {
	if txManager == nil {
		txManager = tx.Journal{}
	}
	return &Interactor{svc: svc, tx: txManager}
}

func (i *Interactor) Calculate(ctx context.Context, input gpadto.CalculateInput) (gpadto.CalculateOutput, error) {
	store, err := buildStore(input.Entries)
	if err != nil {
		return gpadto.CalculateOutput{}, err
	}
	return toCalculateOutput(i.svc.Calculate(ctx, store)), nil
}

func (i *Interactor) Export(ctx context.Context, input gpadto.ExportInput) (gpadto.ExportOutput, error) {
	store, err := buildStore(input.Entries)
	if err != nil {
		return gpadto.ExportOutput{}, err
	}
	formats, err := parseFormats(input.Formats)
	if err != nil {
		return gpadto.ExportOutput{}, err
	}
	if strings.TrimSpace(input.Label) == "" {
		return gpadto.ExportOutput{}, fmt.Errorf("%w: report label is required", apperrors.ErrInvalidInput)
	}

	var report domain.Report
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		var exportErr error
		report, exportErr = i.svc.Export(ctx, input.Label, formats, store)
		return exportErr
	})
	if err != nil {
		return gpadto.ExportOutput{}, err
	}
	return gpadto.ExportOutput{
		Report: toReportOutput(report.Summary()),
		Result: toCalculateOutput(report.Result),
	}, nil
}

func (i *Interactor) ListReports(ctx context.Context, limit int) ([]gpadto.ReportOutput, error) {
	items, err := i.svc.ListReports(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]gpadto.ReportOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toReportOutput(item))
	}
	return out, nil
}

func (i *Interactor) GetReport(ctx context.Context, id string) (gpadto.ReportOutput, error) {
	if strings.TrimSpace(id) == "" {
		return gpadto.ReportOutput{}, fmt.Errorf("%w: report id is required", apperrors.ErrInvalidInput)
	}
	item, err := i.svc.GetReport(ctx, id)
	if err != nil {
		return gpadto.ReportOutput{}, err
	}
	return toReportOutput(item), nil
}

// buildStore replays each entry as a setField on a fresh store; later entries
// for the same slot and field win.
func buildStore(entries []gpadto.EntryInput) (domain.EntryStore, error) {
	store := domain.NewEntryStore()
	for _, e := range entries {
		slot := domain.Slot{Level: domain.Level(e.Level), Semester: domain.Semester(e.Semester)}
		if err := slot.Validate(); err != nil {
			return domain.EntryStore{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		next, err := store.SetField(slot, domain.Field(strings.ToLower(strings.TrimSpace(e.Field))), e.Value)
		if err != nil {
			return domain.EntryStore{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		store = next
	}
	return store, nil
}

func parseFormats(raw []string) ([]domain.ReportFormat, error) {
	if len(raw) == 0 {
		return []domain.ReportFormat{domain.ReportFormatMarkdown}, nil
	}
	out := make([]domain.ReportFormat, 0, len(raw))
	for _, r := range raw {
		f := domain.ReportFormat(strings.ToLower(strings.TrimSpace(r)))
		if f == "md" {
			f = domain.ReportFormatMarkdown
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownFormat, r)
		}
		out = append(out, f)
	}
	return out, nil
}

func toCalculateOutput(result domain.AggregateResult) gpadto.CalculateOutput {
	out := gpadto.CalculateOutput{
		Semesters:           make([]gpadto.SemesterOutput, 0, len(result.Semesters)),
		CumulativeGPA:       result.CumulativeGPA,
		CumulativeAvailable: result.CumulativeAvailable,
		TotalCredits:        result.TotalCredits,
		TotalQualityPoints:  result.TotalQualityPoints,
		ContributingSlots:   result.Contributing(),
		CumulativeDisplay:   domain.FormatGPA(result.CumulativeGPA, result.CumulativeAvailable),
		CreditsDisplay:      domain.FormatCredits(result.TotalCredits),
		PointsDisplay:       domain.FormatPoints(result.TotalQualityPoints),
	}
	for _, sem := range result.Semesters {
		out.Semesters = append(out.Semesters, gpadto.SemesterOutput{
			Level:         int(sem.Slot.Level),
			Semester:      int(sem.Slot.Semester),
			GPA:           sem.GPA,
			Credits:       sem.Credits,
			QualityPoints: sem.QualityPoints,
			Available:     sem.Available,
			Display:       domain.FormatGPA(sem.GPA, sem.Available),
		})
	}
	return out
}

func toReportOutput(s domain.ReportSummary) gpadto.ReportOutput {
	return gpadto.ReportOutput{
		ID:                s.ID,
		Label:             s.Label,
		CreatedAt:         s.CreatedAt,
		CumulativeDisplay: domain.FormatGPA(s.CumulativeGPA, s.CumulativeAvailable),
		CreditsDisplay:    domain.FormatCredits(s.TotalCredits),
		PointsDisplay:     domain.FormatPoints(s.TotalQualityPoints),
		ContributingSlots: s.ContributingSlots,
		NotePath:          s.NotePath,
		WorkbookPath:      s.WorkbookPath,
	}
}
