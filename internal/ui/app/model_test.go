package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gpacalc/internal/modules/gpa/domain"
	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/ui/components"
	calculatorview "gpacalc/internal/ui/views/calculator"
)

type stubGPA struct {
	exportLabel string
	listCalls   int
}

func (s *stubGPA) Calculate(context.Context, []gpadto.EntryInput) (gpadto.CalculateOutput, error) {
	return gpadto.CalculateOutput{CumulativeDisplay: "N/A", CreditsDisplay: "0", PointsDisplay: "0.00"}, nil
}

func (s *stubGPA) Export(_ context.Context, label string, _ []string, _ []gpadto.EntryInput) (gpadto.ExportOutput, error) {
	s.exportLabel = label
	return gpadto.ExportOutput{Report: gpadto.ReportOutput{ID: "r1", Label: label, NotePath: "reports/r1.md"}}, nil
}

func (s *stubGPA) ListReports(context.Context, int) ([]gpadto.ReportOutput, error) {
	s.listCalls++
	return nil, nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestTabSwitching(t *testing.T) {
	t.Parallel()
	m := NewModel(&stubGPA{}, "GPA report", nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabReports {
		t.Fatalf("expected reports tab, got %d", m.activeTab)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabCalculator {
		t.Fatalf("expected calculator tab, got %d", m.activeTab)
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	gpa := &stubGPA{}
	m := NewModel(gpa, "GPA report", nil)

	m, _ = update(t, m, components.ParseCommand("expand-all"))
	if m.status != "all levels expanded" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, cmd := update(t, m, components.ParseCommand("calc"))
	if _, ok := m.calcView.Result(); !ok {
		t.Fatalf("calc should store a result immediately")
	}
	m, _ = update(t, m, cmd())
	if !strings.HasPrefix(m.status, "calculated: cumulative GPA N/A") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, cmd = update(t, m, components.ParseCommand("export  Spring review"))
	exported, ok := cmd().(calculatorview.ExportedMsg)
	if !ok {
		t.Fatalf("export should produce an ExportedMsg")
	}
	if gpa.exportLabel != "Spring review" {
		t.Fatalf("unexpected export label %q", gpa.exportLabel)
	}
	m, cmd = update(t, m, exported)
	if m.status != "exported: reports/r1.md" || cmd == nil {
		t.Fatalf("export should update status and refresh reports, status=%q", m.status)
	}

	m, _ = update(t, m, components.ParseCommand("bogus"))
	if m.status != "unknown command: bogus" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestQuitYieldsWhileEditing(t *testing.T) {
	t.Parallel()
	m := NewModel(&stubGPA{}, "GPA report", nil)
	m, _ = update(t, m, components.ParseCommand("expand-all"))
	for _, k := range []tea.KeyType{tea.KeyDown, tea.KeyDown, tea.KeyEnter} {
		m, _ = update(t, m, tea.KeyMsg{Type: k})
	}
	if !m.calcView.Editing() {
		t.Fatalf("expected field editor to be focused")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.calcView.Store().Entry(domain.Slot{Level: domain.Level100, Semester: domain.SemesterOne}).GPAText; got != "q" {
		t.Fatalf("q must be typed into the field, got %q", got)
	}
}
