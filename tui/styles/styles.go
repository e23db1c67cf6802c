// Package styles provides Lipgloss styles for the picker and command output
// using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// DeepPurple is the main background colour (Ciapre background)
	DeepPurple = lipgloss.Color("#191C27")
	// DarkPurple is a secondary dark background (Ciapre ANSI 0 black)
	DarkPurple = lipgloss.Color("#181818")
	// Purple is the border/dim accent colour (Ciapre ANSI 6 brown)
	Purple = lipgloss.Color("#5C4F4B")
	// BrightPurple is used for highlights and focus states (Ciapre ANSI 5 magenta)
	BrightPurple = lipgloss.Color("#724D7C")
	// Lavender is a secondary text colour (Ciapre foreground)
	Lavender = lipgloss.Color("#AEA47A")
	// LightLavender is the primary text colour (Ciapre ANSI 14 cream)
	LightLavender = lipgloss.Color("#F3DBB2")
	// Pink is an accent colour for headers (Ciapre ANSI 13 bright magenta)
	Pink = lipgloss.Color("#D33061")
	// Cyan is an accent colour for interactive elements (Ciapre ANSI 12 bright blue)
	Cyan = lipgloss.Color("#3097C6")
	// Amber is a warm accent for pending work
	Amber = lipgloss.Color("#CC8B3F")
	// Red is used for warnings and errors (Ciapre ANSI 1)
	Red = lipgloss.Color("#AC3835")
	// Green is used for success messages (Ciapre ANSI 2)
	Green = lipgloss.Color("#A6A75D")
)

// Title is the style for view and section titles.
var Title = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// Header is the style for table headers.
var Header = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true)

// Highlight is the style for the row under the cursor.
var Highlight = lipgloss.NewStyle().
	Background(BrightPurple).
	Foreground(LightLavender).
	Bold(true)

// PrimaryText is the style for primary text content.
var PrimaryText = lipgloss.NewStyle().
	Foreground(LightLavender)

// SecondaryText is the style for less prominent text.
var SecondaryText = lipgloss.NewStyle().
	Foreground(Lavender)

// Dim is the style for unavailable rows.
var Dim = lipgloss.NewStyle().
	Foreground(Purple)

// Pending is the style for work not started yet.
var Pending = lipgloss.NewStyle().
	Foreground(Amber)

// Warning is the style for warning messages.
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages.
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// Status renders a clip status in its colour.
func Status(status string) string {
	switch status {
	case "complete":
		return Success.Render(status)
	case "error":
		return Warning.Render(status)
	case "pending", "processing":
		return Pending.Render(status)
	default:
		return SecondaryText.Render(status)
	}
}
