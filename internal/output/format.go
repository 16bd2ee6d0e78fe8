// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/config"
	"todo/internal/store"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// Styles holds the lipgloss styles for one output stream.
type Styles struct {
	Text lipgloss.Style
	Err  lipgloss.Style
	List lipgloss.Style
}

// NewStyles builds styles for w from the configured output settings. Color
// is dropped automatically when w is not a terminal.
func NewStyles(w io.Writer, s config.OutputSettings) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Text: newStyle(r, s.Text),
		Err:  newStyle(r, s.Err),
		List: newStyle(r, s.List),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Text: s, Err: s, List: s}
}

func newStyle(r *lipgloss.Renderer, ts config.TextSettings) lipgloss.Style {
	style := r.NewStyle().Bold(ts.Bold).Italic(ts.Italic)
	if c, err := config.ParseColor(ts.Color); err == nil && c != "" {
		style = style.Foreground(lipgloss.Color(c))
	}
	return style
}

// FormatTask formats a task line for a single list.
// Format: "{N:>4}  [x] {NAME}\n"
func FormatTask(w io.Writer, st Styles, num int, task store.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, st.Text.Render(taskLine(task)))
}

// FormatTaskIndented formats a task line inside a list section.
// Format: "    {N:>4}  [x] {NAME}\n"
func FormatTaskIndented(w io.Writer, st Styles, num int, task store.Task) {
	fmt.Fprintf(w, "    %4d  %s\n", num, st.Text.Render(taskLine(task)))
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, st Styles, name string, isDefault bool) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, st.List.Render(listTitle(name, isDefault)))
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list name for the lists command.
func FormatListName(w io.Writer, st Styles, name string, isDefault bool) {
	fmt.Fprintln(w, st.List.Render(listTitle(name, isDefault)))
}

// Errorf prints an "error: ..." line in the error style.
func Errorf(w io.Writer, st Styles, format string, args ...any) {
	fmt.Fprintln(w, st.Err.Render("error: "+fmt.Sprintf(format, args...)))
}

func taskLine(t store.Task) string {
	box := "[ ]"
	if t.Checked {
		box = "[x]"
	}
	return box + " " + normalizeTitle(t.Name)
}

func listTitle(name string, isDefault bool) string {
	title := normalizeTitle(name)
	if isDefault {
		title += " [default]"
	}
	return title
}

// normalizeTitle normalizes a name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
