package components

import (
	"fmt"

	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/pkg/timeutil"
	"github.com/user/stream-auto-editor/tui/styles"
)

// ClipDetail renders the details of one manifest clip as an info box.
func ClipDetail(c db.Clip, width int) string {
	label := styles.SecondaryText
	value := styles.PrimaryText

	row := func(name, v string) string {
		return label.Render(fmt.Sprintf(" %-10s", name)) + value.Render(v)
	}

	lines := []string{
		row("Window", fmt.Sprintf("%s - %s", timeutil.FormatClock(c.Start), timeutil.FormatClock(c.End))),
		row("Duration", timeutil.FormatSeconds(c.Duration)),
	}
	if c.CompanionStart != nil {
		lines = append(lines, row("Companion", timeutil.FormatClock(*c.CompanionStart)))
	}
	lines = append(lines, row("Status", styles.Status(c.Status)))
	for i := range c.Killers {
		killed := ""
		if i < len(c.Killed) {
			killed = c.Killed[i]
		}
		lines = append(lines, row("Kill", c.Killers[i]+" → "+killed))
	}
	lines = append(lines, row("File", c.Path))
	if c.ThumbPath != "" {
		lines = append(lines, row("Thumbnail", c.ThumbPath))
	}
	if c.Log != "" {
		lines = append(lines, "", styles.Warning.Render(" "+firstLine(c.Log)))
	}

	return RenderInfoBox(fmt.Sprintf("Clip %d", c.Index), lines, width)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
