package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for console output
type Styles struct {
	Step    lipgloss.Style
	Branch  lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	renderer *lipgloss.Renderer
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewStyles returns styles rendering to w. Colors are dropped when w is not a
// terminal or NO_COLOR is set, so captured output stays plain text.
func NewStyles(w io.Writer) Styles {
	renderer := lipgloss.NewRenderer(w)
	if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Step:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Branch:  renderer.NewStyle().Foreground(lipgloss.Color("6")),
		Path:    renderer.NewStyle().Underline(true),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:    renderer.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:   renderer.NewStyle().Foreground(lipgloss.Color("8")),

		renderer: renderer,
	}
}
