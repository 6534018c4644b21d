package in

import (
	"context"

	"gpacalc/internal/modules/gpa/dto"
)

type Usecase interface {
	Calculate(ctx context.Context, input dto.CalculateInput) (dto.CalculateOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	ListReports(ctx context.Context, limit int) ([]dto.ReportOutput, error)
	GetReport(ctx context.Context, id string) (dto.ReportOutput, error)
}
