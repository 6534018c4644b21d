package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gpacalc/internal/ui/theme"
)

// PaletteCommand is one entry of the command table shown while typing.
type PaletteCommand struct {
	Name string
	Args string
	Help string
}

// Commands handled by app.Model.executePalette.
var Commands = []PaletteCommand{
	{Name: "calc", Help: "recalculate from the form"},
	{Name: "export", Args: "[label]", Help: "write a report of the current form"},
	{Name: "expand-all", Help: "open every level and semester"},
	{Name: "collapse-all", Help: "close every level"},
	{Name: "clear", Help: "empty all fields"},
	{Name: "reports:refresh", Help: "reload the report index"},
}

// PaletteSubmitMsg carries a confirmed command. Command is the first word of
// Input and Args the trimmed remainder.
type PaletteSubmitMsg struct {
	Input   string
	Command string
	Args    string
}

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Purple).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().Foreground(theme.Indigo)
	hintStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "command, tab completes"
	ti.CharLimit = 128
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows an empty palette and focuses it.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			submit := ParseCommand(p.input.Value())
			p.close()
			return p, func() tea.Msg { return submit }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n\n")

	matching := p.matches()
	if len(matching) == 0 {
		sb.WriteString(theme.Alert.Render("  no matching command") + "\n")
	}
	for _, c := range matching {
		usage := c.Name
		if c.Args != "" {
			usage += " " + c.Args
		}
		sb.WriteString("  " + commandStyle.Render(padRight(usage, 18)) + hintStyle.Render(c.Help) + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// ParseCommand splits raw palette input into command and arguments.
func ParseCommand(input string) PaletteSubmitMsg {
	input = strings.TrimSpace(input)
	name, args, _ := strings.Cut(input, " ")
	return PaletteSubmitMsg{Input: input, Command: name, Args: strings.TrimSpace(args)}
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// complete fills in the command name when exactly one command matches.
func (p *Palette) complete() {
	matching := p.matches()
	if len(matching) != 1 || strings.Contains(p.input.Value(), " ") {
		return
	}
	value := matching[0].Name
	if matching[0].Args != "" {
		value += " "
	}
	p.input.SetValue(value)
	p.input.CursorEnd()
}

// matches filters the table by the command word typed so far. Once arguments
// follow, only the exact command stays listed.
func (p Palette) matches() []PaletteCommand {
	value := strings.ToLower(strings.TrimLeft(p.input.Value(), " "))
	name, _, hasArgs := strings.Cut(value, " ")
	var out []PaletteCommand
	for _, c := range Commands {
		if (hasArgs && c.Name == name) || (!hasArgs && strings.HasPrefix(c.Name, name)) {
			out = append(out, c)
		}
	}
	return out
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
