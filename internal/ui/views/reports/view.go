package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ReportsPort interface {
	ListReports(ctx context.Context, limit int) ([]gpadto.ReportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Reports []gpadto.ReportOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type reportItem struct {
	report gpadto.ReportOutput
}

func (i reportItem) Title() string { return i.report.Label }
func (i reportItem) Description() string {
	return fmt.Sprintf("%s  GPA %s", i.report.CreatedAt.Format("2006-01-02 15:04"), i.report.CumulativeDisplay)
}
func (i reportItem) FilterValue() string { return i.report.Label }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ReportsPort
	list    list.Model
	preview viewport.Model
	err     error
	width   int
	height  int
}

func New(port ReportsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Indigo).BorderForeground(theme.Indigo)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Purple).BorderForeground(theme.Indigo)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Reports"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	return Model{port: port, list: l, preview: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh reloads the report index.
func (m Model) Refresh() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil {
			return LoadedMsg{}
		}
		items, err := port.ListReports(context.Background(), 100)
		return LoadedMsg{Reports: items, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.err = msg.Err
		items := make([]list.Item, len(msg.Reports))
		for i, r := range msg.Reports {
			items[i] = reportItem{report: r}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())
		return m, tea.Batch(cmds...)
	}

	var lCmd tea.Cmd
	prevIdx := m.list.Index()
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.preview.SetContent(m.renderDetail())
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(m.width-listW-4, 0)
	m.preview.Height = max(m.height-4, 0)
}

func (m Model) renderDetail() string {
	if m.err != nil {
		return theme.Alert.Render("reports: " + m.err.Error())
	}
	item, ok := m.list.SelectedItem().(reportItem)
	if !ok {
		return theme.Muted.Render("No reports yet. Press x on the Calculator tab to export one.")
	}
	r := item.report
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(r.Label) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:         ") + r.ID + "\n")
	sb.WriteString(theme.Muted.Render("created:    ") + r.CreatedAt.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(theme.Muted.Render("cumulative: ") + r.CumulativeDisplay + "\n")
	sb.WriteString(theme.Muted.Render("credits:    ") + r.CreditsDisplay + "\n")
	sb.WriteString(theme.Muted.Render("points:     ") + r.PointsDisplay + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("semesters:  "), r.ContributingSlots))
	sb.WriteString(theme.Muted.Render("note:       ") + r.NotePath + "\n")
	if r.WorkbookPath != "" {
		sb.WriteString(theme.Muted.Render("workbook:   ") + r.WorkbookPath + "\n")
	}
	return sb.String()
}
