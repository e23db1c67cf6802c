// Package layout sizes and joins rendered blocks of terminal text.
package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ellipsis marks a line cut by PadToWidth.
const ellipsis = "…"

// PadToWidth fits s to exactly width columns, padding with spaces or cutting
// it with an ellipsis. Styled text keeps its escape sequences.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := lipgloss.Width(s); w > width {
		tail := ellipsis
		if width == 1 {
			tail = ""
		}
		s = ansi.Truncate(s, width, tail)
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// NormalizeLines returns exactly height lines, dropping extras or adding blanks.
func NormalizeLines(lines []string, height int) []string {
	if height <= 0 {
		return nil
	}
	out := make([]string, height)
	copy(out, lines)
	return out
}
