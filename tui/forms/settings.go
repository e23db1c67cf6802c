package forms

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/user/stream-auto-editor/config"
	"github.com/user/stream-auto-editor/pkg/timeutil"
	"github.com/user/stream-auto-editor/plan"
)

// SettingsFormResult holds the raw values of the settings form.
type SettingsFormResult struct {
	FirstKill          string
	CompanionFirstKill string
	Distance           string
	Before             int
	After              int
	VisibleToCaster    bool
	Players            []string
}

// NewSettingsFormResult prefills a result from s.
func NewSettingsFormResult(s config.Settings) *SettingsFormResult {
	return &SettingsFormResult{
		FirstKill:          s.FirstKill,
		CompanionFirstKill: s.CompanionFirstKill,
		Distance:           strconv.FormatFloat(s.Distance, 'f', -1, 64),
		Before:             s.Before,
		After:              s.After,
		VisibleToCaster:    s.VisibleToCaster,
		Players:            append([]string(nil), s.Players...),
	}
}

// Apply copies the form values onto s.
func (r *SettingsFormResult) Apply(s *config.Settings) error {
	d, err := strconv.ParseFloat(strings.TrimSpace(r.Distance), 64)
	if err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	s.FirstKill = strings.TrimSpace(r.FirstKill)
	s.CompanionFirstKill = strings.TrimSpace(r.CompanionFirstKill)
	s.Distance = d
	s.Before = r.Before
	s.After = r.After
	s.VisibleToCaster = r.VisibleToCaster
	s.Players = append([]string(nil), r.Players...)
	return nil
}

// NewSettingsForm creates the planning settings form. players are the
// identifiers found in the log and counts their kills; both feed the player
// picker. The companion step is shown only when dualStream is set.
func NewSettingsForm(result *SettingsFormResult, players []string, counts map[string]int, dualStream bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Clip Settings").Description("Timing"),

			huh.NewInput().
				Title("First kill time").
				Description("hh:mm:ss of the first logged kill in the main video").
				Placeholder("00:00:00").
				Value(&result.FirstKill).
				Validate(validateClock),

			huh.NewSelect[int]().
				Title("Seconds before").
				Options(secondOptions()...).
				Value(&result.Before),

			huh.NewSelect[int]().
				Title("Seconds after").
				Options(secondOptions()...).
				Value(&result.After),
		),

		huh.NewGroup(
			huh.NewNote().Title("Clip Settings").Description("Companion video"),

			huh.NewInput().
				Title("Companion first kill time").
				Description("hh:mm:ss of the same kill in the companion video").
				Placeholder("00:00:00").
				Value(&result.CompanionFirstKill).
				Validate(validateClock),
		).WithHideFunc(func() bool { return !dualStream }),

		huh.NewGroup(
			huh.NewNote().Title("Clip Settings").Description("Filters"),

			huh.NewInput().
				Title("Camera distance").
				Description(fmt.Sprintf("Largest distance to keep, 0-%.0f", plan.MaxDistance)).
				Value(&result.Distance).
				Validate(validateDistance),

			huh.NewConfirm().
				Title("Visible to caster").
				Description("Keep only kills both the killer and the caster could see").
				Value(&result.VisibleToCaster),

			huh.NewMultiSelect[string]().
				Title("Players").
				Description("Kills by any selected player are kept").
				Options(playerOptions(players, counts)...).
				Value(&result.Players).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one player")
					}
					return nil
				}),
		),
	).WithTheme(Theme())
}

func validateClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("time is required")
	}
	_, err := timeutil.ParseClock(s)
	return err
}

func validateDistance(s string) error {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("distance must be a number")
	}
	if d < 0 || d > plan.MaxDistance {
		return fmt.Errorf("distance must be between 0 and %.0f", plan.MaxDistance)
	}
	return nil
}

func secondOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, 11)
	for i := 0; i <= int(plan.MaxPadding.Seconds()); i++ {
		opts = append(opts, huh.NewOption(strconv.Itoa(i), i))
	}
	return opts
}

// playerOptions lists players by kill count, most kills first. Preselected
// values stay selected through the bound value.
func playerOptions(players []string, counts map[string]int) []huh.Option[string] {
	names := append([]string(nil), players...)
	sort.SliceStable(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d)", name, counts[name]), name))
	}
	return opts
}
