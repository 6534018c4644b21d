package calculator

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gpacalc/internal/modules/gpa/domain"
	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CalculatorPort interface {
	Calculate(ctx context.Context, entries []gpadto.EntryInput) (gpadto.CalculateOutput, error)
	Export(ctx context.Context, label string, formats []string, entries []gpadto.EntryInput) (gpadto.ExportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ExportedMsg struct {
	Out gpadto.ExportOutput
	Err error
}

// CalculatedMsg reports a finished calculation to the parent for its status bar.
type CalculatedMsg struct {
	Result gpadto.CalculateOutput
	Err    error
}

// ─── rows ────────────────────────────────────────────────────────────────────

type rowKind int

const (
	rowLevel rowKind = iota
	rowSemester
	rowField
)

type row struct {
	kind  rowKind
	level domain.Level
	slot  domain.Slot
	field domain.Field
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model owns the whole form session: the entry store, which panels are open,
// and the last calculated result. Every edit goes through SetField.
type Model struct {
	port       CalculatorPort
	store      domain.EntryStore
	disclosure domain.Disclosure
	result     gpadto.CalculateOutput
	hasResult  bool

	cursor    int
	input     textinput.Model
	editing   bool
	editSlot  domain.Slot
	editField domain.Field

	exportLabel   string
	exportFormats []string
	width         int
	height        int
}

func New(port CalculatorPort, exportLabel string, exportFormats []string) Model {
	ti := textinput.New()
	ti.CharLimit = 0 // fields take any text; parsing decides what counts
	ti.Prompt = "› "
	return Model{
		port:          port,
		store:         domain.NewEntryStore(),
		disclosure:    domain.NewDisclosure(),
		input:         ti,
		exportLabel:   exportLabel,
		exportFormats: exportFormats,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		rows := m.rows()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.activate(rows)
		case "c":
			return m.Calculate()
		case "x":
			return m, m.Export("")
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		m = m.SetField(m.editSlot, m.editField, m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) activate(rows []row) (Model, tea.Cmd) {
	if m.cursor >= len(rows) {
		return m, nil
	}
	r := rows[m.cursor]
	switch r.kind {
	case rowLevel:
		m.disclosure = m.disclosure.ToggleLevel(r.level)
	case rowSemester:
		m.disclosure = m.disclosure.ToggleSemester(r.slot)
	case rowField:
		m.editing = true
		m.editSlot = r.slot
		m.editField = r.field
		m.input.Placeholder = domain.HintFor(r.field).String()
		m.input.SetValue(m.store.Entry(r.slot).Get(r.field))
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	m.clampCursor()
	return m, nil
}

// ─── commands exposed to the parent ──────────────────────────────────────────

// SetField stores raw text for one field; no validation happens here.
func (m Model) SetField(slot domain.Slot, field domain.Field, value string) Model {
	if next, err := m.store.SetField(slot, field, value); err == nil {
		m.store = next
	}
	return m
}

// Calculate aggregates the current store within this update and replaces
// the previous result.
func (m Model) Calculate() (Model, tea.Cmd) {
	if m.port == nil {
		return m, nil
	}
	out, err := m.port.Calculate(context.Background(), entryInputs(m.store))
	if err == nil {
		m.result = out
		m.hasResult = true
	}
	return m, func() tea.Msg { return CalculatedMsg{Result: out, Err: err} }
}

// Export snapshots the store and writes a report in the background.
func (m Model) Export(label string) tea.Cmd {
	if strings.TrimSpace(label) == "" {
		label = m.exportLabel
	}
	port, formats, entries := m.port, m.exportFormats, entryInputs(m.store)
	return func() tea.Msg {
		if port == nil {
			return ExportedMsg{Err: fmt.Errorf("calculator adapter not configured")}
		}
		out, err := port.Export(context.Background(), label, formats, entries)
		return ExportedMsg{Out: out, Err: err}
	}
}

func (m Model) ExpandAll() Model {
	m.disclosure = m.disclosure.ExpandAll()
	return m
}

func (m Model) CollapseAll() Model {
	m.disclosure = m.disclosure.CollapseAll()
	m.clampCursor()
	return m
}

// Clear empties every field and drops the last result.
func (m Model) Clear() Model {
	m.store = m.store.Reset()
	m.result = gpadto.CalculateOutput{}
	m.hasResult = false
	return m
}

// Editing reports whether a field editor has focus; the app yields global keys then.
func (m Model) Editing() bool { return m.editing }

func (m Model) Store() domain.EntryStore { return m.store }

func (m Model) Result() (gpadto.CalculateOutput, bool) { return m.result, m.hasResult }

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	formW := m.width * 6 / 10
	resultW := m.width - formW

	form := lipgloss.NewStyle().
		Width(formW).
		Height(m.height).
		Render(m.renderForm())

	results := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Padding(0, 1).
		Width(max(resultW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.renderResults())

	return lipgloss.JoinHorizontal(lipgloss.Top, form, results)
}

func (m Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("University GPA Calculator") + "\n")
	sb.WriteString(theme.Muted.Render("Expand a level, open a semester, enter GPA and credits. Leave unused fields blank.") + "\n\n")
	for i, r := range m.rows() {
		line := m.renderRow(r)
		if i == m.cursor {
			line = theme.Hot.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: toggle/edit  c: calculate  x: export  esc: cancel edit"))
	return sb.String()
}

func (m Model) renderRow(r row) string {
	switch r.kind {
	case rowLevel:
		return theme.Title.Render(fmt.Sprintf("Level %d", int(r.level))) + " " + marker(m.disclosure.LevelOpen(r.level))
	case rowSemester:
		return fmt.Sprintf("  Semester %d %s", int(r.slot.Semester), marker(m.disclosure.SemesterOpen(r.slot)))
	}
	label := "Semester GPA: "
	if r.field == domain.FieldCredits {
		label = "Total Credits:"
	}
	if m.editing && r.slot == m.editSlot && r.field == m.editField {
		return "    " + label + " " + m.input.View()
	}
	value := m.store.Entry(r.slot).Get(r.field)
	if value == "" {
		value = theme.Muted.Render(domain.HintFor(r.field).String())
	}
	return "    " + label + " " + value
}

func (m Model) renderResults() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Results") + "\n\n")
	for _, level := range domain.Levels {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("Level %d", int(level))) + "\n")
		for _, sem := range domain.Semesters {
			slot := domain.Slot{Level: level, Semester: sem}
			sb.WriteString(fmt.Sprintf("  Semester %d GPA: %s\n", int(sem), m.semesterDisplay(slot)))
		}
	}
	cumulative, credits, points := domain.NotAvailable, "0", domain.FormatPoints(0)
	if m.hasResult {
		cumulative, credits, points = m.result.CumulativeDisplay, m.result.CreditsDisplay, m.result.PointsDisplay
	}
	sb.WriteString("\n" + theme.Title.Render("Cumulative GPA: "+cumulative) + "\n")
	sb.WriteString(theme.Muted.Render("Total Credits: ") + credits + "\n")
	sb.WriteString(theme.Muted.Render("Total Points:  ") + points + "\n")
	return sb.String()
}

func (m Model) semesterDisplay(slot domain.Slot) string {
	idx := slot.Index()
	if !m.hasResult || idx < 0 || idx >= len(m.result.Semesters) {
		return domain.NotAvailable
	}
	return m.result.Semesters[idx].Display
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) rows() []row {
	out := make([]row, 0, len(domain.Levels)*(1+len(domain.Semesters)*3))
	for _, level := range domain.Levels {
		out = append(out, row{kind: rowLevel, level: level})
		if !m.disclosure.LevelOpen(level) {
			continue
		}
		for _, sem := range domain.Semesters {
			slot := domain.Slot{Level: level, Semester: sem}
			out = append(out, row{kind: rowSemester, level: level, slot: slot})
			if !m.disclosure.SemesterOpen(slot) {
				continue
			}
			out = append(out,
				row{kind: rowField, level: level, slot: slot, field: domain.FieldGPA},
				row{kind: rowField, level: level, slot: slot, field: domain.FieldCredits},
			)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func marker(open bool) string {
	if open {
		return theme.Muted.Render("−")
	}
	return theme.Muted.Render("+")
}

func entryInputs(store domain.EntryStore) []gpadto.EntryInput {
	items := store.Entries()
	out := make([]gpadto.EntryInput, 0, len(items)*2)
	for _, item := range items {
		for _, field := range []domain.Field{domain.FieldGPA, domain.FieldCredits} {
			out = append(out, gpadto.EntryInput{
				Level:    int(item.Slot.Level),
				Semester: int(item.Slot.Semester),
				Field:    string(field),
				Value:    item.Entry.Get(field),
			})
		}
	}
	return out
}
