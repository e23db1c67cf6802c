package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/clip"
	"github.com/user/stream-auto-editor/config"
	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/deps"
	"github.com/user/stream-auto-editor/events"
	"github.com/user/stream-auto-editor/pkg/cliputil"
	"github.com/user/stream-auto-editor/tui/components"
	"github.com/user/stream-auto-editor/tui/forms"
	"github.com/user/stream-auto-editor/tui/styles"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Extract a preview clip for every planned clip",
	Long: `Plan the clips and cut each one into <out>/clip_<n>.mp4 with a thumbnail.
With a companion video every clip is composited side by side.
The clip list is stored in <out>/manifest.db and the settings in
<out>/settings.yaml for the pick and final commands.
Clips that fail to extract are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		if err := requireFile("video", s.Video); err != nil {
			return err
		}
		if s.DualStream() {
			if err := requireFile("companion video", s.Companion); err != nil {
				return err
			}
		}
		if err := deps.CheckFfmpeg(); err != nil {
			return err
		}

		evs, err := loadEvents(s)
		if err != nil {
			return err
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			if err := promptSettings(&s, evs); err != nil {
				return err
			}
		}

		p, err := planEvents(s, evs)
		if err != nil {
			return err
		}
		printPlan(p)

		out, err := outputDir(s)
		if err != nil {
			return err
		}
		conn, err := db.Open(db.ManifestPath(out))
		if err != nil {
			return fmt.Errorf("failed to open manifest: %w", err)
		}
		defer conn.Close()

		s.OutputDir = out
		snapshot, err := config.Marshal(s)
		if err != nil {
			return err
		}
		if err := config.Write(s, cliputil.SettingsPath(out)); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		run := db.Run{
			ID:            uuid.NewString(),
			VideoPath:     s.Video,
			LogPath:       s.Log,
			CompanionPath: s.Companion,
			Settings:      string(snapshot),
		}
		if err := db.InsertRun(conn, run, clip.ManifestClips(p, out)); err != nil {
			return err
		}
		logger.Debug().Str("run", run.ID).Str("out", out).Msg("stored clip manifest")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ff := clip.NewFFmpeg(deps.Ffmpeg(), s.Encoder, logger)
		processor := &clip.Processor{
			DB:             conn,
			Transcoder:     ff,
			Compositor:     ff,
			Logger:         logger,
			MainVideo:      s.Video,
			CompanionVideo: s.Companion,
			OutputDir:      out,
		}

		state := components.ExtractProgressState{}
		sum, err := processor.Run(ctx, run.ID, func(done, total int, c db.Clip, err error) {
			state.Total = total
			if err != nil {
				state.Errors++
			} else {
				state.Completed++
			}
			state.Current = filepath.Base(c.Path)
			fmt.Println(components.ExtractProgress(state, 100))
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(styles.Success.Render(fmt.Sprintf("%d of %d clips extracted to %s", len(sum.Completed), sum.Total, out)))
		for _, f := range sum.Failed {
			fmt.Println(styles.Warning.Render("  " + f.Error()))
		}

		pick, _ := cmd.Flags().GetBool("pick")
		if pick {
			return runPicker(conn, run.ID)
		}
		fmt.Println("Run 'stream-auto-editor pick' to choose clips, then 'stream-auto-editor final'.")
		return nil
	},
}

// promptSettings asks for the planning settings in a huh form prefilled from s.
func promptSettings(s *config.Settings, evs []events.Event) error {
	result := forms.NewSettingsFormResult(*s)
	players := events.Players(evs)
	if len(result.Players) == 0 {
		result.Players = players
	}
	form := forms.NewSettingsForm(result, players, events.KillCounts(evs), s.DualStream())
	if err := form.Run(); err != nil {
		return err
	}
	return result.Apply(s)
}

func init() {
	addSourceFlags(previewCmd)
	addPlanFlags(previewCmd)
	addOutputFlags(previewCmd)
	addEncoderFlags(previewCmd)
	previewCmd.Flags().BoolP("interactive", "i", false, "Ask for the settings in a form")
	previewCmd.Flags().Bool("pick", false, "Open the clip picker when extraction finishes")
	rootCmd.AddCommand(previewCmd)
}
