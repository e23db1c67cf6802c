package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/stream-auto-editor/tui/styles"
)

// ExtractProgressState is a snapshot of a preview extraction run.
type ExtractProgressState struct {
	Total     int
	Completed int
	Errors    int
	Current   string
}

// ExtractProgress renders a one-line bar: "████░░░░  50% 2/4 clips  1 errors  clip_2.mp4".
func ExtractProgress(state ExtractProgressState, width int) string {
	done := state.Completed + state.Errors

	var pct int
	if state.Total > 0 {
		pct = done * 100 / state.Total
	}

	barWidth := 20
	filled := 0
	if state.Total > 0 {
		filled = barWidth * done / state.Total
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := lipgloss.NewStyle().Foreground(styles.Green).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.Amber).Render(strings.Repeat("░", barWidth-filled))

	line := fmt.Sprintf("%s %3d%% %s", bar, pct,
		styles.PrimaryText.Render(fmt.Sprintf("%d/%d clips", done, state.Total)))
	if state.Errors > 0 {
		line += "  " + styles.Warning.Render(fmt.Sprintf("%d errors", state.Errors))
	}
	if state.Current != "" {
		line += "  " + styles.SecondaryText.Render(state.Current)
	}

	if width > 0 && lipgloss.Width(line) > width {
		line = ansi.Truncate(line, width-3, "...")
	}
	return line
}
