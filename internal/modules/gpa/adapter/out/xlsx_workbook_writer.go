package out

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"gpacalc/internal/modules/gpa/domain"
	gpaout "gpacalc/internal/modules/gpa/port/out"
)

const (
	semestersSheet = "Semesters"
	summarySheet   = "Summary"
)

type XLSXWorkbookWriter struct {
	reportsDir string
}

func NewXLSXWorkbookWriter(reportsDir string) gpaout.WorkbookWriter {
	return &XLSXWorkbookWriter{reportsDir: reportsDir}
}

func (w *XLSXWorkbookWriter) Write(_ context.Context, report domain.Report) (string, error) {
	path, err := reportPath(w.reportsDir, report, ".xlsx")
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("save workbook: %s already exists", path)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := fillWorkbook(f, report); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (w *XLSXWorkbookWriter) Remove(_ context.Context, path string) error {
	return removeArtifact(path)
}

func fillWorkbook(f *excelize.File, report domain.Report) error {
	if err := f.SetSheetName("Sheet1", semestersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headers := []any{"Level", "Semester", "GPA", "Credits", "Quality Points"}
	if err := f.SetSheetRow(semestersSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, sem := range report.Result.Semesters {
		row := []any{int(sem.Slot.Level), int(sem.Slot.Semester), domain.NotAvailable, "", ""}
		if sem.Available {
			row = []any{int(sem.Slot.Level), int(sem.Slot.Semester), sem.GPA, sem.Credits, sem.QualityPoints}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(semestersSheet, cell, &row); err != nil {
			return fmt.Errorf("write semester row: %w", err)
		}
	}
	_ = f.SetRowStyle(semestersSheet, 1, 1, headerStyle)
	_ = f.SetColWidth(semestersSheet, "A", "E", 16)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	r := report.Result
	var cumulative any = domain.NotAvailable
	if r.CumulativeAvailable {
		cumulative = r.CumulativeGPA
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Report", report.Label},
		{"Created", report.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Cumulative GPA", cumulative},
		{"Total Credits", r.TotalCredits},
		{"Total Points", r.TotalQualityPoints},
	}
	for i, row := range rows {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	_ = f.SetRowStyle(summarySheet, 1, 1, headerStyle)
	_ = f.SetColWidth(summarySheet, "A", "B", 22)
	return nil
}
