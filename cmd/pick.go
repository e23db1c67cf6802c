package cmd

import (
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/mpv"
	"github.com/user/stream-auto-editor/tui"
	"github.com/user/stream-auto-editor/tui/styles"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose which preview clips go into the final video",
	Long:  `Open the clip picker over the latest preview run. Space toggles a clip, p previews it in mpv and enter saves the selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		out, err := outputDir(s)
		if err != nil {
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
		return runPicker(conn, run.ID)
	},
}

// latestRun returns the run stored by the last preview.
func latestRun(conn *sql.DB) (*db.Run, error) {
	run, err := db.SelectLatestRun(conn)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("the manifest holds no preview run, run preview first")
	}
	return run, nil
}

// runPicker shows the picker for runID and stores the confirmed selection.
func runPicker(conn *sql.DB, runID string) error {
	clips, err := db.SelectClipsByRun(conn, runID)
	if err != nil {
		return err
	}

	picker := tui.NewPicker(clips, func(path string) error {
		return mpv.Preview(path, "")
	})
	if _, err := tea.NewProgram(picker, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if !picker.Confirmed() {
		fmt.Println("Selection unchanged.")
		return nil
	}

	indices := picker.Selection().Indices()
	if err := db.UpdateClipSelection(conn, runID, indices); err != nil {
		return err
	}
	fmt.Println(styles.Success.Render(fmt.Sprintf("%d clips selected: %v", len(indices), indices)))
	return nil
}

func init() {
	pickCmd.Flags().String("video", "", "Main video file, used to find the default output directory")
	addOutputFlags(pickCmd)
	rootCmd.AddCommand(pickCmd)
}
