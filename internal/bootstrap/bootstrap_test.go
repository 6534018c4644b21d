package bootstrap

import (
	"context"
	"os"
	"strings"
	"testing"

	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/platform/config"
)

func TestNewWiresCalculatorAndExport(t *testing.T) {
	t.Parallel()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	app, err := New(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() { _ = app.Close() }()

	entries := []gpadto.EntryInput{
		{Level: 100, Semester: 1, Field: "gpa", Value: "9.0"},
		{Level: 100, Semester: 1, Field: "credits", Value: "20"},
		{Level: 100, Semester: 2, Field: "gpa", Value: "8.0"},
		{Level: 100, Semester: 2, Field: "credits", Value: "10"},
	}
	out, err := app.GPACLI.Export(context.Background(), "Wiring check", []string{"markdown", "xlsx"}, entries)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Result.CumulativeDisplay != "8.67" || out.Report.WorkbookPath == "" {
		t.Fatalf("unexpected export %+v", out)
	}
	reports, err := app.GPACLI.ListReports(context.Background(), 10)
	if err != nil || len(reports) != 1 {
		t.Fatalf("expected one indexed report, got %d (%v)", len(reports), err)
	}

	logged, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logged), "msg=exported") || !strings.Contains(string(logged), "component=gpa") {
		t.Fatalf("expected export to be logged, got %s", logged)
	}

	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := app.GPACLI.ListReports(context.Background(), 10); err == nil {
		t.Fatalf("report index must be closed with the app")
	}
}
