package out

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gpacalc/internal/modules/gpa/domain"
	gpaout "gpacalc/internal/modules/gpa/port/out"
	"gpacalc/internal/platform/markdown"
)

type VaultReportStore struct {
	reportsDir string
}

func NewVaultReportStore(reportsDir string) gpaout.ReportStore {
	return &VaultReportStore{reportsDir: reportsDir}
}

type reportMeta struct {
	SchemaVersion      int            `yaml:"schema_version"`
	ID                 string         `yaml:"id"`
	Label              string         `yaml:"label"`
	CreatedAt          string         `yaml:"created_at"`
	CumulativeGPA      *float64       `yaml:"cumulative_gpa"`
	TotalCredits       float64        `yaml:"total_credits"`
	TotalQualityPoints float64        `yaml:"total_quality_points"`
	Semesters          []semesterMeta `yaml:"semesters"`
}

type semesterMeta struct {
	Level    int      `yaml:"level"`
	Semester int      `yaml:"semester"`
	GPA      *float64 `yaml:"gpa"`
	Credits  *float64 `yaml:"credits,omitempty"`
}

// Save writes the note once. An existing file at the target path is never
// replaced.
func (s *VaultReportStore) Save(_ context.Context, report domain.Report) (string, error) {
	path, err := reportPath(s.reportsDir, report, ".md")
	if err != nil {
		return "", err
	}
	rendered, err := markdown.Render(newReportMeta(report), renderReportBody(report))
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create report note: %w", err)
	}
	if _, err := f.WriteString(rendered); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write report note: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report note: %w", err)
	}
	return path, nil
}

func (s *VaultReportStore) Remove(_ context.Context, path string) error {
	return removeArtifact(path)
}

func newReportMeta(report domain.Report) reportMeta {
	r := report.Result
	meta := reportMeta{
		SchemaVersion:      domain.SchemaVersion,
		ID:                 report.ID,
		Label:              report.Label,
		CreatedAt:          report.CreatedAt.Format(time.RFC3339),
		TotalCredits:       r.TotalCredits,
		TotalQualityPoints: r.TotalQualityPoints,
	}
	if r.CumulativeAvailable {
		v := r.CumulativeGPA
		meta.CumulativeGPA = &v
	}
	for _, sem := range r.Semesters {
		item := semesterMeta{Level: int(sem.Slot.Level), Semester: int(sem.Slot.Semester)}
		if sem.Available {
			gpa, credits := sem.GPA, sem.Credits
			item.GPA = &gpa
			item.Credits = &credits
		}
		meta.Semesters = append(meta.Semesters, item)
	}
	return meta
}

func renderReportBody(report domain.Report) string {
	r := report.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", report.Label)
	for _, level := range domain.Levels {
		fmt.Fprintf(&sb, "## Level %d\n\n", int(level))
		for _, sem := range domain.Semesters {
			res := r.Semester(domain.Slot{Level: level, Semester: sem})
			fmt.Fprintf(&sb, "- Semester %d GPA: %s\n", int(sem), domain.FormatGPA(res.GPA, res.Available))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Cumulative GPA: %s\n", domain.FormatGPA(r.CumulativeGPA, r.CumulativeAvailable))
	fmt.Fprintf(&sb, "- Total Credits: %s\n", domain.FormatCredits(r.TotalCredits))
	fmt.Fprintf(&sb, "- Total Points: %s\n", domain.FormatPoints(r.TotalQualityPoints))
	return sb.String()
}
