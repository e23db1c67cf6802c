// Package components provides rendering helpers shared by the picker and
// the command output.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/stream-auto-editor/tui/layout"
	"github.com/user/stream-auto-editor/tui/styles"
)

// RenderInfoBox draws contentLines in a rounded box with title set into the
// top border:
//
//	╭─ Title ─────╮
//	│ content     │
//	╰─────────────╯
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}
	innerWidth := width - 2

	border := lipgloss.NewStyle().Foreground(styles.Purple)
	header := styles.Header.Render(" " + title + " ")

	fill := innerWidth - 1 - lipgloss.Width(header)
	if fill < 0 {
		fill = 0
	}

	lines := make([]string, 0, len(contentLines)+2)
	lines = append(lines, border.Render("╭─")+header+border.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range contentLines {
		lines = append(lines, border.Render("│")+layout.PadToWidth(line, innerWidth)+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(lines, "\n")
}
