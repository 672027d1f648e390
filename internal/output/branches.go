package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// branchPalette colors branches in listings, cycling by position
var branchPalette = []lipgloss.Color{
	"#4ccbf1", // light blue
	"#4dca7d", // green
	"#6ead26", // dark green
	"#f5c800", // yellow
	"#f89048", // orange
	"#f46251", // red
	"#eb82bc", // pink
	"#9f83e4", // purple
	"#5084f3", // blue
}

// BranchColor returns the palette style for the branch at index
func (s Styles) BranchColor(index int) lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.renderer != nil {
		style = s.renderer.NewStyle()
	}
	if index < 0 {
		index = -index
	}
	return style.Foreground(branchPalette[index%len(branchPalette)])
}

// BranchList renders one line per branch. The current branch gets a filled
// marker and a "(current)" suffix; pass "" when no branch is checked out.
func (s Styles) BranchList(branches []string, current string) []string {
	lines := make([]string, 0, len(branches))
	for i, name := range branches {
		marker, label := "◯", name
		if name == current {
			marker, label = "◉", name+" (current)"
		}
		style := s.BranchColor(i)
		lines = append(lines, style.Render(marker)+" "+style.Render(label))
	}
	return lines
}

// LogLines dims the abbreviated SHA that starts each `git log --oneline` line
func (s Styles) LogLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sha, subject, ok := strings.Cut(line, " ")
		if !ok {
			out = append(out, line)
			continue
		}
		out = append(out, s.Muted.Render(sha)+" "+subject)
	}
	return out
}
