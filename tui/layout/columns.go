package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/stream-auto-editor/tui/styles"
)

// Responsive layout constants.
const (
	// DetailMinTerminalWidth is the narrowest terminal that still gets a detail column.
	DetailMinTerminalWidth = 90
	// DetailMaxWidth caps the detail column on wide terminals.
	DetailMaxWidth = 56
)

// SplitWidths divides the terminal between the clip list and the detail
// column. Below DetailMinTerminalWidth the detail column is hidden.
func SplitWidths(termWidth int) (list, detail int, showDetail bool) {
	if termWidth < DetailMinTerminalWidth {
		return termWidth, 0, false
	}
	// One border character between the columns.
	usable := termWidth - 1
	detail = usable * 2 / 5
	if detail > DetailMaxWidth {
		detail = DetailMaxWidth
	}
	return usable - detail, detail, true
}

// JoinColumns joins pre-rendered column strings side by side with purple border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	border := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, 0, len(colLines))
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, border))
	}

	return strings.Join(rows, "\n")
}
