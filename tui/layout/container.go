package layout

import (
	"fmt"
	"strings"

	"github.com/user/stream-auto-editor/tui/styles"
)

// Container fits content into an exact Width x Height box. Content taller
// than the box keeps its top lines and ends in a count of the hidden ones.
type Container struct {
	Width  int
	Height int
}

// Render returns content as exactly Height lines of Width columns.
func (c Container) Render(content string) string {
	if c.Height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if hidden := len(lines) - c.Height; hidden > 0 {
		lines = lines[:c.Height]
		// the indicator replaces the last visible line, so it hides one more
		lines[c.Height-1] = styles.Dim.Render(fmt.Sprintf("↓ %d more", hidden+1))
	}
	lines = NormalizeLines(lines, c.Height)
	for i := range lines {
		lines[i] = PadToWidth(lines[i], c.Width)
	}
	return strings.Join(lines, "\n")
}
