package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/stream-auto-editor/tui/styles"
)

// StatusBarState holds what the picker status bar shows.
type StatusBarState struct {
	Selected  int
	Available int
	Total     int
	// Message is a transient note such as a preview error.
	Message string
}

// StatusBar renders the selection count on the left and the message on the right.
func StatusBar(state StatusBarState, width int) string {
	left := fmt.Sprintf(" %d of %d clips selected", state.Selected, state.Available)
	if unavailable := state.Total - state.Available; unavailable > 0 {
		left += fmt.Sprintf(" (%d failed)", unavailable)
	}
	right := state.Message
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}
