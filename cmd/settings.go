package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/user/stream-auto-editor/config"
	"github.com/user/stream-auto-editor/events"
	"github.com/user/stream-auto-editor/pkg/cliputil"
	"github.com/user/stream-auto-editor/plan"
)

// addSourceFlags registers the input video and log flags.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("video", "", "Main video file")
	cmd.Flags().String("log", "", "Kill log (JSON lines, optionally .gz or .zst)")
	cmd.Flags().String("companion", "", "Companion (first-person) video; enables side-by-side clips")
}

// addPlanFlags registers the planning thresholds.
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-kill", "", "Clock time (hh:mm:ss) of the first logged kill in the main video")
	cmd.Flags().String("companion-first-kill", "", "Clock time (hh:mm:ss) of the first logged kill in the companion video")
	cmd.Flags().Float64("distance", 0, fmt.Sprintf("Largest camera distance to keep (0-%.0f, default 50)", plan.MaxDistance))
	cmd.Flags().Int("before", 0, "Seconds before each kill (0-10, default 5)")
	cmd.Flags().Int("after", 0, "Seconds after each kill (0-10, default 3)")
	cmd.Flags().Bool("visible", true, "Keep only kills both the killer and the caster could see")
	cmd.Flags().StringSlice("players", nil, "Killers to keep (default: everyone in the log)")
	cmd.Flags().StringSlice("exclude", nil, "Players to leave out when --players is not given")
}

// addOutputFlags registers where clips are written.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Clip output directory (default <video>-clips)")
}

// addEncoderFlags registers the ffmpeg quality flags.
func addEncoderFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "x264 preset (default ultrafast)")
	cmd.Flags().Int("crf", 0, "x264 CRF (default 23)")
}

// resolveSettings loads the settings file and lays explicitly set flags over it.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigPath()
	}
	s, err := config.Load(path)
	if err != nil {
		return s, err
	}
	if err := applyFlags(cmd.Flags(), &s); err != nil {
		return s, err
	}
	return s, nil
}

func applyFlags(flags *pflag.FlagSet, s *config.Settings) error {
	var err error
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed && err == nil {
			*dst, err = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f := flags.Lookup(name); f != nil && f.Changed && err == nil {
			*dst, err = flags.GetInt(name)
		}
	}
	list := func(name string, dst *[]string) {
		if f := flags.Lookup(name); f != nil && f.Changed && err == nil {
			*dst, err = flags.GetStringSlice(name)
		}
	}

	str("video", &s.Video)
	str("log", &s.Log)
	str("companion", &s.Companion)
	str("intro", &s.Intro)
	str("outro", &s.Outro)
	str("out", &s.OutputDir)
	str("output", &s.Output)
	str("first-kill", &s.FirstKill)
	str("companion-first-kill", &s.CompanionFirstKill)
	num("before", &s.Before)
	num("after", &s.After)
	list("players", &s.Players)
	list("exclude", &s.Exclude)
	str("preset", &s.Encoder.Preset)
	num("crf", &s.Encoder.CRF)

	if f := flags.Lookup("distance"); f != nil && f.Changed && err == nil {
		s.Distance, err = flags.GetFloat64("distance")
	}
	if f := flags.Lookup("visible"); f != nil && f.Changed && err == nil {
		s.VisibleToCaster, err = flags.GetBool("visible")
	}
	return err
}

// runSettings resolves settings for a command working on an existing output
// directory. Without an explicit settings file the snapshot written by
// preview is used, with explicitly set flags laid over it.
func runSettings(cmd *cobra.Command) (config.Settings, string, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return s, "", err
	}
	out, err := outputDir(s)
	if err != nil {
		return s, "", err
	}

	explicit, _ := cmd.Flags().GetString("config")
	snapshot := cliputil.SettingsPath(out)
	if explicit != "" || config.ConfigPath() != "" {
		return s, out, nil
	}
	if _, err := os.Stat(snapshot); err != nil {
		return s, out, nil
	}

	saved, err := config.Load(snapshot)
	if err != nil {
		return s, "", err
	}
	if err := applyFlags(cmd.Flags(), &saved); err != nil {
		return s, "", err
	}
	saved.OutputDir = out
	logger.Debug().Str("settings", snapshot).Msg("using settings saved by preview")
	return saved, out, nil
}

// outputDir returns the configured clip directory or the one derived from the video.
func outputDir(s config.Settings) (string, error) {
	if s.OutputDir != "" {
		return s.OutputDir, nil
	}
	if s.Video == "" {
		return "", &plan.ValidationError{Field: "output directory", Err: fmt.Errorf("pass --out or --video")}
	}
	return cliputil.GetOutputDir(s.Video), nil
}

// requireFile checks that a configured input exists and is a regular file.
func requireFile(field, path string) error {
	if path == "" {
		return &plan.ValidationError{Field: field, Err: fmt.Errorf("required")}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &plan.ValidationError{Field: field, Err: err}
	}
	if info.IsDir() {
		return &plan.ValidationError{Field: field, Err: fmt.Errorf("%s is a directory", path)}
	}
	return nil
}

// loadEvents validates the log path and reads it.
func loadEvents(s config.Settings) ([]events.Event, error) {
	if err := requireFile("log file", s.Log); err != nil {
		return nil, err
	}
	evs, err := events.Load(s.Log)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("log", s.Log).Int("events", len(evs)).Msg("loaded kill log")
	return evs, nil
}

// planOptions turns settings into planning options. Without an explicit
// player list every player in the log is kept, minus the excluded ones.
func planOptions(s config.Settings, evs []events.Event) (plan.Options, error) {
	mainAnchor, err := plan.ParseAnchor("first kill time", s.FirstKill)
	if err != nil {
		return plan.Options{}, err
	}

	players := s.Players
	if len(players) == 0 {
		excluded := make(map[string]bool, len(s.Exclude))
		for _, p := range s.Exclude {
			excluded[p] = true
		}
		for _, p := range events.Players(evs) {
			if !excluded[p] {
				players = append(players, p)
			}
		}
	}

	opts := plan.Options{
		Criteria:   plan.NewCriteria(players, s.Distance, s.VisibleToCaster),
		Before:     time.Duration(s.Before) * time.Second,
		After:      time.Duration(s.After) * time.Second,
		MainAnchor: mainAnchor,
	}
	if s.DualStream() {
		companion, err := plan.ParseCompanionAnchor(s.CompanionFirstKill)
		if err != nil {
			return plan.Options{}, err
		}
		opts.CompanionAnchor = &companion
	}
	return opts, nil
}

// buildPlan loads the log and plans the clips for s.
func buildPlan(s config.Settings) (*plan.Plan, error) {
	evs, err := loadEvents(s)
	if err != nil {
		return nil, err
	}
	return planEvents(s, evs)
}

// planEvents plans the clips for already loaded events.
func planEvents(s config.Settings, evs []events.Event) (*plan.Plan, error) {
	opts, err := planOptions(s, evs)
	if err != nil {
		return nil, err
	}
	p, err := plan.Build(evs, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range p.Rejected {
		logger.Warn().
			Str("killer", w.Killer).
			Str("killed", w.Killed).
			Dur("start", w.Start).
			Dur("end", w.End).
			Msg("skipping window with no duration")
	}
	return p, nil
}
