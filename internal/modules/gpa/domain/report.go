package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReportFormat string

const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatXLSX     ReportFormat = "xlsx"
)

func (f ReportFormat) Validate() error {
	switch f {
	case ReportFormatMarkdown, ReportFormatXLSX:
		return nil
	default:
		return fmt.Errorf("unsupported report format %q", string(f))
	}
}

// Report is an exported snapshot of one calculation. It is written out and
// indexed, never read back into an EntryStore.
type Report struct {
	ID           string
	Label        string
	CreatedAt    time.Time
	Result       AggregateResult
	NotePath     string
	WorkbookPath string
}

func (r Report) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required")
	}
	return nil
}

// ReportSummary is the indexed projection of a Report.
type ReportSummary struct {
	ID                  string
	Label               string
	CreatedAt           time.Time
	CumulativeGPA       float64
	CumulativeAvailable bool
	TotalCredits        float64
	TotalQualityPoints  float64
	ContributingSlots   int
	NotePath            string
	WorkbookPath        string
}

func (r Report) Summary() ReportSummary {
	return ReportSummary{
		ID:                  r.ID,
		Label:               r.Label,
		CreatedAt:           r.CreatedAt,
		CumulativeGPA:       r.Result.CumulativeGPA,
		CumulativeAvailable: r.Result.CumulativeAvailable,
		TotalCredits:        r.Result.TotalCredits,
		TotalQualityPoints:  r.Result.TotalQualityPoints,
		ContributingSlots:   r.Result.Contributing(),
		NotePath:            r.NotePath,
		WorkbookPath:        r.WorkbookPath,
	}
}
