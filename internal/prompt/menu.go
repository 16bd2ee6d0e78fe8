package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Accept key.Binding
	Cancel key.Binding
}

func defaultMenuKeys() menuKeys {
	return menuKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "toggle")),
		All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// menuModel is a bubbletea model for picking one or many options.
type menuModel struct {
	options   []string
	multi     bool
	cursor    int
	marked    map[int]bool
	keys      menuKeys
	done      bool
	cancelled bool
}

func newMenuModel(options []string, multi bool) menuModel {
	return menuModel{
		options: options,
		multi:   multi,
		marked:  make(map[int]bool),
		keys:    defaultMenuKeys(),
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case m.multi && key.Matches(keyMsg, m.keys.Toggle):
		m.marked[m.cursor] = !m.marked[m.cursor]
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case m.multi && key.Matches(keyMsg, m.keys.All):
		all := len(m.selected()) < len(m.options)
		for i := range m.options {
			m.marked[i] = all
		}
	}
	return m, nil
}

func (m menuModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	for i, opt := range m.options {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		if m.multi {
			box := "[ ] "
			if m.marked[i] {
				box = markStyle.Render("[x] ")
			}
			pointer += box
		}
		if i == m.cursor {
			opt = cursorStyle.Render(opt)
		}
		fmt.Fprintf(&b, "%s%s\n", pointer, opt)
	}

	help := []key.Binding{m.keys.Up, m.keys.Down}
	if m.multi {
		help = append(help, m.keys.Toggle, m.keys.All)
	}
	help = append(help, m.keys.Accept, m.keys.Cancel)
	parts := make([]string, len(help))
	for i, h := range help {
		parts[i] = h.Help().Key + " " + h.Help().Desc
	}
	b.WriteString(helpStyle.Render(strings.Join(parts, " • ")))
	b.WriteString("\n")
	return b.String()
}

// selected returns the picked options in display order. In single mode the
// option under the cursor is the pick; in multi mode the marked ones are.
func (m menuModel) selected() []string {
	if m.cancelled || len(m.options) == 0 {
		return nil
	}
	if !m.multi {
		return []string{m.options[m.cursor]}
	}
	var out []string
	for i, opt := range m.options {
		if m.marked[i] {
			out = append(out, opt)
		}
	}
	return out
}

// Menu is a terminal selection menu built on bubbletea.
type Menu struct {
	in  io.Reader
	out io.Writer
}

// NewMenu creates a menu reading keys from in and drawing on out.
func NewMenu(in io.Reader, out io.Writer) *Menu {
	return &Menu{in: in, out: out}
}

// Select shows options and blocks until the user accepts or cancels.
// Cancelling returns an empty selection.
func (m *Menu) Select(ctx context.Context, options []string, multi bool) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	p := tea.NewProgram(newMenuModel(options, multi),
		tea.WithContext(ctx),
		tea.WithInput(m.in),
		tea.WithOutput(m.out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("selection menu: %w", err)
	}
	model, ok := final.(menuModel)
	if !ok || !model.done {
		return nil, nil
	}
	return model.selected(), nil
}
