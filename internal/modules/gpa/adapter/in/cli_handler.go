package in

import (
	"context"

	gpadto "gpacalc/internal/modules/gpa/dto"
	gpain "gpacalc/internal/modules/gpa/port/in"
)

type CLIHandler struct {
	usecase gpain.Usecase
}

func NewCLIHandler(usecase gpain.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Calculate(ctx context.Context, entries []gpadto.EntryInput) (gpadto.CalculateOutput, error) {
	return h.usecase.Calculate(ctx, gpadto.CalculateInput{Entries: entries})
}

func (h CLIHandler) Export(ctx context.Context, label string, formats []string, entries []gpadto.EntryInput) (gpadto.ExportOutput, error) {
	return h.usecase.Export(ctx, gpadto.ExportInput{Label: label, Formats: formats, Entries: entries})
}

func (h CLIHandler) ListReports(ctx context.Context, limit int) ([]gpadto.ReportOutput, error) {
	return h.usecase.ListReports(ctx, limit)
}

func (h CLIHandler) GetReport(ctx context.Context, id string) (gpadto.ReportOutput, error) {
	return h.usecase.GetReport(ctx, id)
}
