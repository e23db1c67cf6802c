package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/clip"
	"github.com/user/stream-auto-editor/config"
	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/deps"
	"github.com/user/stream-auto-editor/pkg/cliputil"
	"github.com/user/stream-auto-editor/plan"
	"github.com/user/stream-auto-editor/tui/forms"
	"github.com/user/stream-auto-editor/tui/styles"
)

var finalCmd = &cobra.Command{
	Use:   "final",
	Short: "Join the selected clips into the final video",
	Long: `Concatenate the optional intro, the selected preview clips in index order
and the optional outro into one video. The selection comes from the pick
command unless --select is given. Settings saved by preview in the output
directory are reused unless a settings file is passed. An intro or outro
file that does not exist is skipped with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, out, err := runSettings(cmd)
		if err != nil {
			return err
		}
		if err := deps.CheckFfmpeg(); err != nil {
			return err
		}

		conn, err := db.OpenExisting(out)
		if err != nil {
			return err
		}
		defer conn.Close()

		run, err := latestRun(conn)
		if err != nil {
			return err
		}
		var selectFlag *string
		if cmd.Flags().Changed("select") {
			raw, _ := cmd.Flags().GetString("select")
			selectFlag = &raw
		}
		segments, err := finalSegments(conn, run.ID, s, selectFlag)
		if err != nil {
			return err
		}

		output := cliputil.FinalPath(out, s.Output)
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(output); err == nil && !force {
			overwrite := false
			form := forms.NewConfirmForm("Overwrite "+output+"?", "A final video already exists at this path.", &overwrite)
			if err := form.Run(); err != nil {
				return err
			}
			if !overwrite {
				fmt.Println("Nothing written.")
				return nil
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("Joining %d segments into %s\n", len(segments), output)
		ff := clip.NewFFmpeg(deps.Ffmpeg(), s.Encoder, logger)
		if err := clip.Assemble(ctx, ff, segments, output); err != nil {
			return err
		}
		fmt.Println(styles.Success.Render("Final video written: " + output))
		return nil
	},
}

// finalSegments plans the final video of runID. Without selectFlag the stored
// selection is used, restricted to extracted clips. A --select value is
// stored only once the plan it produces is valid.
func finalSegments(conn *sql.DB, runID string, s config.Settings, selectFlag *string) ([]plan.Segment, error) {
	clips, err := db.SelectClipsByRun(conn, runID)
	if err != nil {
		return nil, err
	}

	files := clip.Files(clips)
	var indices []int
	if selectFlag != nil {
		indices, err = cliputil.ParseIndices(*selectFlag, len(clips))
		if err != nil {
			return nil, &plan.ValidationError{Field: "selection", Err: err}
		}
	} else {
		for _, idx := range db.SelectedIndices(clips) {
			if _, ok := files[idx]; ok {
				indices = append(indices, idx)
			}
		}
	}

	intro := optionalSegment("intro", s.Intro)
	outro := optionalSegment("outro", s.Outro)
	segments, err := plan.BuildFinalPlan(files, plan.NewSelection(indices...), intro, outro)
	if err != nil {
		return nil, err
	}

	if selectFlag != nil {
		if err := db.UpdateClipSelection(conn, runID, indices); err != nil {
			return nil, err
		}
	}
	return segments, nil
}

// optionalSegment returns path when it names an existing file and warns otherwise.
func optionalSegment(kind, path string) string {
	if path == "" {
		return ""
	}
	if err := requireFile(kind, path); err != nil {
		logger.Warn().Err(err).Msgf("skipping %s", kind)
		return ""
	}
	return path
}

func init() {
	finalCmd.Flags().String("video", "", "Main video file, used to find the default output directory")
	addOutputFlags(finalCmd)
	addEncoderFlags(finalCmd)
	finalCmd.Flags().String("select", "", "Clip indices to use, e.g. 1,3,5-7 (default: the picked selection)")
	finalCmd.Flags().String("intro", "", "Video to put before the clips")
	finalCmd.Flags().String("outro", "", "Video to put after the clips")
	finalCmd.Flags().String("output", "", "Final video path (default <out>/"+cliputil.FinalName+")")
	finalCmd.Flags().BoolP("force", "f", false, "Overwrite an existing final video without asking")
	rootCmd.AddCommand(finalCmd)
}
