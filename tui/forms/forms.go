// Package forms provides the huh forms used by interactive commands.
package forms

import (
	"github.com/charmbracelet/huh"
)

// NewConfirmForm creates a yes/no form bound to confirmed.
func NewConfirmForm(title, description string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(Theme())
}
