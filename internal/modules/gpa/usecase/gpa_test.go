package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"

	gpaout "gpacalc/internal/modules/gpa/adapter/out"
	"gpacalc/internal/modules/gpa/domain"
	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/modules/gpa/service"
	"gpacalc/internal/modules/gpa/usecase"
	"gpacalc/internal/platform/clock"
	apperrors "gpacalc/internal/platform/errors"
	"gpacalc/internal/platform/tx"
)

type fakeID struct{}

func (fakeID) New() string { return "report-1" }

type sequentialID struct{ ids []string }

func (s *sequentialID) New() string {
	next := s.ids[0]
	s.ids = s.ids[1:]
	return next
}

type countingTx struct{ calls int }

func (c *countingTx) Within(ctx context.Context, fn func(context.Context) error) error {
	c.calls++
	return fn(ctx)
}

type failingIndex struct{}

func (failingIndex) Upsert(context.Context, domain.ReportSummary) error {
	return errors.New("disk full")
}
func (failingIndex) List(context.Context, int) ([]domain.ReportSummary, error) { return nil, nil }
func (failingIndex) Get(context.Context, string) (domain.ReportSummary, error) {
	return domain.ReportSummary{}, apperrors.ErrNotFound
}

func entry(level, semester int, gpa, credits string) []gpadto.EntryInput {
	return []gpadto.EntryInput{
		{Level: level, Semester: semester, Field: "gpa", Value: gpa},
		{Level: level, Semester: semester, Field: "credits", Value: credits},
	}
}

func calculatorOnly() *service.GPAService {
	return service.NewGPAService(clock.SystemClock{}, fakeID{}, log.NewNopLogger(), nil, nil, nil)
}

func TestCalculateScenarios(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(calculatorOnly(), nil)
	ctx := context.Background()

	empty, err := uc.Calculate(ctx, gpadto.CalculateInput{})
	if err != nil {
		t.Fatalf("calculate empty: %v", err)
	}
	if empty.CumulativeAvailable || empty.CumulativeDisplay != "N/A" || empty.TotalCredits != 0 || empty.PointsDisplay != "0.00" {
		t.Fatalf("unexpected empty result %+v", empty)
	}
	if len(empty.Semesters) != domain.SlotCount {
		t.Fatalf("every slot must be reported, got %d", len(empty.Semesters))
	}

	single, err := uc.Calculate(ctx, gpadto.CalculateInput{Entries: entry(300, 1, "9.5", "20")})
	if err != nil {
		t.Fatalf("calculate single: %v", err)
	}
	if single.Semesters[4].Display != "9.50" || single.TotalQualityPoints != 190 || single.CumulativeDisplay != "9.50" || single.CreditsDisplay != "20" {
		t.Fatalf("unexpected single result %+v", single)
	}

	entries := append(entry(100, 1, "9.0", "20"), entry(100, 2, "8.0", "10")...)
	entries = append(entries, entry(200, 1, "abc", "20")...)
	entries = append(entries, entry(200, 2, "9.5", "")...)
	weighted, err := uc.Calculate(ctx, gpadto.CalculateInput{Entries: entries})
	if err != nil {
		t.Fatalf("calculate weighted: %v", err)
	}
	if weighted.TotalCredits != 30 || weighted.TotalQualityPoints != 260 || weighted.CumulativeDisplay != "8.67" {
		t.Fatalf("unexpected weighted result %+v", weighted)
	}
	if weighted.Semesters[2].Available || weighted.Semesters[3].Available || weighted.ContributingSlots != 2 {
		t.Fatalf("unparseable slots must be excluded: %+v", weighted.Semesters)
	}
}

func TestCalculateRejectsUnknownSlotOrField(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(calculatorOnly(), nil)
	bad := [][]gpadto.EntryInput{
		{{Level: 500, Semester: 1, Field: "gpa", Value: "1"}},
		{{Level: 100, Semester: 3, Field: "gpa", Value: "1"}},
		{{Level: 100, Semester: 1, Field: "grade", Value: "1"}},
	}
	for _, entries := range bad {
		if _, err := uc.Calculate(context.Background(), gpadto.CalculateInput{Entries: entries}); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", entries, err)
		}
	}
}

func TestExportWritesNoteWorkbookAndIndex(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	index, err := gpaout.NewSQLiteReportIndex(filepath.Join(dir, ".gpacalc", "gpacalc.db"))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	defer func() { _ = index.Close() }()
	reportsDir := filepath.Join(dir, "reports")
	svc := service.NewGPAService(
		clock.Fixed(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)),
		fakeID{},
		log.NewNopLogger(),
		gpaout.NewVaultReportStore(reportsDir),
		gpaout.NewXLSXWorkbookWriter(reportsDir),
		index,
	)
	txm := &countingTx{}
	uc := usecase.NewInteractor(svc, txm)

	out, err := uc.Export(context.Background(), gpadto.ExportInput{
		Label:   "Final Transcript",
		Formats: []string{"md", "XLSX"},
		Entries: entry(400, 2, "10", "24"),
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if txm.calls != 1 {
		t.Fatalf("export must run inside one tx boundary, got %d", txm.calls)
	}
	if out.Report.ID != "report-1" || out.Result.CumulativeDisplay != "10.00" {
		t.Fatalf("unexpected export output %+v", out)
	}
	if !strings.HasSuffix(out.Report.NotePath, "070809-report-1-final-transcript.md") || !strings.HasSuffix(out.Report.WorkbookPath, ".xlsx") {
		t.Fatalf("unexpected artifact paths %+v", out.Report)
	}
	for _, p := range []string{out.Report.NotePath, out.Report.WorkbookPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s missing: %v", p, err)
		}
	}

	listed, err := uc.ListReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(listed) != 1 || listed[0].CumulativeDisplay != "10.00" || listed[0].CreditsDisplay != "24" {
		t.Fatalf("unexpected listing %+v", listed)
	}
	got, err := uc.GetReport(context.Background(), "report-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.Label != "Final Transcript" || got.PointsDisplay != "240.00" {
		t.Fatalf("unexpected report %+v", got)
	}
	if _, err := uc.GetReport(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportSameLabelSameSecondKeepsBothReports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	index, err := gpaout.NewSQLiteReportIndex(filepath.Join(dir, ".gpacalc", "gpacalc.db"))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	defer func() { _ = index.Close() }()
	reportsDir := filepath.Join(dir, "reports")
	svc := service.NewGPAService(
		clock.Fixed(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)),
		&sequentialID{ids: []string{"0a1b2c3d-aaaa", "9f8e7d6c-bbbb"}},
		log.NewNopLogger(),
		gpaout.NewVaultReportStore(reportsDir),
		gpaout.NewXLSXWorkbookWriter(reportsDir),
		index,
	)
	uc := usecase.NewInteractor(svc, nil)
	ctx := context.Background()

	first, err := uc.Export(ctx, gpadto.ExportInput{Label: "Same", Formats: []string{"markdown", "xlsx"}, Entries: entry(100, 1, "9.0", "20")})
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	second, err := uc.Export(ctx, gpadto.ExportInput{Label: "Same", Formats: []string{"markdown", "xlsx"}, Entries: entry(100, 1, "5.0", "20")})
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if first.Report.NotePath == second.Report.NotePath || first.Report.WorkbookPath == second.Report.WorkbookPath {
		t.Fatalf("reports must not share files: %+v / %+v", first.Report, second.Report)
	}

	for _, tc := range []struct {
		out  gpadto.ExportOutput
		id   string
		want string
	}{
		{first, "0a1b2c3d-aaaa", "9.00"},
		{second, "9f8e7d6c-bbbb", "5.00"},
	} {
		note, err := os.ReadFile(tc.out.Report.NotePath)
		if err != nil {
			t.Fatalf("read note: %v", err)
		}
		if !strings.Contains(string(note), "id: "+tc.id) || !strings.Contains(string(note), "- Cumulative GPA: "+tc.want) {
			t.Fatalf("note %s does not hold report %s:\n%s", tc.out.Report.NotePath, tc.id, note)
		}
		got, err := uc.GetReport(ctx, tc.id)
		if err != nil {
			t.Fatalf("get report %s: %v", tc.id, err)
		}
		if got.NotePath != tc.out.Report.NotePath {
			t.Fatalf("index points %s at %s, want %s", tc.id, got.NotePath, tc.out.Report.NotePath)
		}
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return n
}

func TestExportValidation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := service.NewGPAService(clock.SystemClock{}, fakeID{}, nil, gpaout.NewVaultReportStore(dir), nil, failingIndex{})
	uc := usecase.NewInteractor(svc, tx.Journal{})
	ctx := context.Background()

	if _, err := uc.Export(ctx, gpadto.ExportInput{Label: "x", Formats: []string{"pdf"}}); !errors.Is(err, apperrors.ErrUnknownFormat) {
		t.Fatalf("expected unknown format, got %v", err)
	}
	if _, err := uc.Export(ctx, gpadto.ExportInput{Label: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank label, got %v", err)
	}
	if _, err := uc.Export(ctx, gpadto.ExportInput{Label: "x", Formats: []string{"xlsx"}}); err == nil {
		t.Fatalf("expected error without workbook writer")
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("missing workbook writer must fail before any write, found %d files", n)
	}
	if _, err := uc.Export(ctx, gpadto.ExportInput{Label: "x"}); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected index failure to surface, got %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("failed export must remove its note, found %d files", n)
	}
	if _, err := uc.GetReport(ctx, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank id, got %v", err)
	}
}

func TestExportWithoutJournalKeepsPartialNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := service.NewGPAService(clock.SystemClock{}, fakeID{}, nil, gpaout.NewVaultReportStore(dir), nil, failingIndex{})
	uc := usecase.NewInteractor(svc, tx.NoopManager{})
	if _, err := uc.Export(context.Background(), gpadto.ExportInput{Label: "x"}); err == nil {
		t.Fatalf("expected index failure")
	}
	if n := countFiles(t, dir); n != 1 {
		t.Fatalf("noop manager has nothing to roll back, expected 1 file, got %d", n)
	}
}
