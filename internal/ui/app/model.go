package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/ui/components"
	"gpacalc/internal/ui/theme"
	calculatorview "gpacalc/internal/ui/views/calculator"
	reportsview "gpacalc/internal/ui/views/reports"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type gpaPort interface {
	Calculate(ctx context.Context, entries []gpadto.EntryInput) (gpadto.CalculateOutput, error)
	Export(ctx context.Context, label string, formats []string, entries []gpadto.EntryInput) (gpadto.ExportOutput, error)
	ListReports(ctx context.Context, limit int) ([]gpadto.ReportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabCalculator tabID = iota
	tabReports
	tabCount
)

var tabLabels = [tabCount]string{"Calculator", "Reports"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Toggle    key.Binding
	Calculate key.Binding
	Export    key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle / edit")),
		Calculate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "calculate")),
		Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export report")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Cancel},
		{k.Calculate, k.Export},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes tabs and owns the palette,
// help overlay and status bar. The calculator view owns the form session.
type Model struct {
	calcView    calculatorview.Model
	reportsView reportsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(gpa gpaPort, exportLabel string, exportFormats []string) Model {
	var calcPort calculatorview.CalculatorPort
	var repPort reportsview.ReportsPort
	if gpa != nil {
		calcPort = gpa
		repPort = gpa
	}
	return Model{
		calcView:    calculatorview.New(calcPort, exportLabel, exportFormats),
		reportsView: reportsview.New(repPort),
		activeTab:   tabCalculator,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.calcView.Init(), m.reportsView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case calculatorview.CalculatedMsg:
		if msg.Err != nil {
			m.status = "calculate failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("calculated: cumulative GPA %s over %s credits", msg.Result.CumulativeDisplay, msg.Result.CreditsDisplay)
		}
		return m, nil

	case calculatorview.ExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = "exported: " + msg.Out.Report.NotePath
		return m, m.reportsView.Refresh()

	case reportsview.LoadedMsg:
		var cmd tea.Cmd
		m.reportsView, cmd = m.reportsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it is capturing text.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabCalculator:
		m.calcView, tabCmd = m.calcView.Update(msg)
	case tabReports:
		m.reportsView, tabCmd = m.reportsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabReports:
		content = m.reportsView.View()
	default:
		content = m.calcView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "gpacalc  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(msg components.PaletteSubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.Command {
	case "":
		return m, nil

	case "calc":
		m.activeTab = tabCalculator
		var cmd tea.Cmd
		m.calcView, cmd = m.calcView.Calculate()
		return m, cmd

	case "export":
		m.status = "exporting…"
		return m, m.calcView.Export(msg.Args)

	case "expand-all":
		m.activeTab = tabCalculator
		m.calcView = m.calcView.ExpandAll()
		m.status = "all levels expanded"

	case "collapse-all":
		m.activeTab = tabCalculator
		m.calcView = m.calcView.CollapseAll()
		m.status = "all levels collapsed"

	case "clear":
		m.activeTab = tabCalculator
		m.calcView = m.calcView.Clear()
		m.status = "form cleared"

	case "reports:refresh":
		m.activeTab = tabReports
		return m, m.reportsView.Refresh()

	default:
		m.status = "unknown command: " + msg.Command
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking free text input,
// in which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabCalculator:
		return m.calcView.Editing()
	case tabReports:
		return m.reportsView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.calcView, _ = m.calcView.Update(sz)
	m.reportsView, _ = m.reportsView.Update(sz)
}
