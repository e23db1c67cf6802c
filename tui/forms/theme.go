package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/stream-auto-editor/tui/styles"
)

// fieldPalette is the set of colours one field state is drawn with.
type fieldPalette struct {
	border  lipgloss.Border
	accent  lipgloss.Color
	title   lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	button  lipgloss.Color
	buttonB lipgloss.Color
}

var (
	focusedPalette = fieldPalette{
		border:  lipgloss.ThickBorder(),
		accent:  styles.Cyan,
		title:   styles.Pink,
		text:    styles.LightLavender,
		muted:   styles.Lavender,
		button:  styles.BrightPurple,
		buttonB: styles.Purple,
	}
	blurredPalette = fieldPalette{
		border:  lipgloss.HiddenBorder(),
		accent:  styles.Lavender,
		title:   styles.Lavender,
		text:    styles.Lavender,
		muted:   styles.Purple,
		button:  styles.Purple,
		buttonB: styles.DeepPurple,
	}
)

// Theme returns the huh theme used by the settings and confirm forms.
// Kill-count options and clock inputs share the picker palette.
func Theme() *huh.Theme {
	t := huh.ThemeBase()
	applyPalette(&t.Focused, focusedPalette)
	applyPalette(&t.Blurred, blurredPalette)

	t.Focused.Base = t.Focused.Base.BorderForeground(styles.BrightPurple)
	t.Focused.Title = t.Focused.Title.Bold(true)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Bold(true)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Cyan)
	t.Focused.SelectSelector = t.Focused.SelectSelector.SetString("▸ ")
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.SetString("▸ ")
	t.Focused.NoteTitle = t.Focused.NoteTitle.Bold(true)
	t.Focused.Next = t.Focused.FocusedButton
	t.Blurred.Next = t.Blurred.FocusedButton
	return t
}

// applyPalette styles every part of a field state from p.
func applyPalette(f *huh.FieldStyles, p fieldPalette) {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	button := func(bg, text lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(text).Padding(0, 1)
	}

	f.Base = f.Base.BorderStyle(p.border).BorderLeft(true).PaddingLeft(1)
	f.Title = fg(p.title)
	f.Description = fg(p.muted)
	f.NoteTitle = fg(p.accent)
	f.ErrorIndicator = fg(styles.Red)
	f.ErrorMessage = fg(styles.Red)

	f.SelectSelector = fg(p.accent).SetString("  ")
	f.MultiSelectSelector = fg(p.accent).SetString("  ")
	f.Option = fg(p.text)
	f.SelectedOption = fg(p.accent)
	f.SelectedPrefix = fg(p.accent).SetString("[x] ")
	f.UnselectedOption = fg(p.muted)
	f.UnselectedPrefix = fg(p.muted).SetString("[ ] ")

	f.TextInput.Placeholder = fg(styles.Purple)
	f.TextInput.Prompt = fg(p.accent)
	f.TextInput.Text = fg(p.text)

	f.FocusedButton = button(p.button, p.text)
	f.BlurredButton = button(p.buttonB, p.muted)
}
