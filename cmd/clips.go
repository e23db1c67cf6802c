package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/mpv"
	"github.com/user/stream-auto-editor/pkg/timeutil"
	"github.com/user/stream-auto-editor/tui/styles"
)

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "Inspect the clips of the latest preview",
	Long:  `List and play the clips recorded in the output directory's manifest.`,
}

var clipsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the clips of the latest preview",
	Long:  `Display every planned clip with its window, extraction status and selection as a table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, clips, err := manifestClips(cmd)
		if err != nil {
			return err
		}

		fmt.Println(styles.Title.Render(fmt.Sprintf("Run %s: %s", shortID(run.ID), run.VideoPath)))
		if run.CompanionPath != "" {
			fmt.Println(styles.SecondaryText.Render("Companion: " + run.CompanionPath))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tSel\tStart\tEnd\tDuration\tStatus\tKills")
		fmt.Fprintln(w, "-\t---\t-----\t---\t--------\t------\t-----")
		for _, c := range clips {
			sel := ""
			if c.Selected && c.Complete() {
				sel = "x"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Index,
				sel,
				timeutil.FormatClock(c.Start),
				timeutil.FormatClock(c.End),
				timeutil.FormatSeconds(c.Duration),
				c.Status,
				c.Label(),
			)
		}
		return w.Flush()
	},
}

var clipsPlayCmd = &cobra.Command{
	Use:   "play <index>",
	Short: "Play a preview clip in mpv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid clip index: %s", args[0])
		}

		_, clips, err := manifestClips(cmd)
		if err != nil {
			return err
		}
		for _, c := range clips {
			if c.Index != index {
				continue
			}
			if !c.Complete() {
				return fmt.Errorf("clip %d was not extracted (%s)", index, c.Status)
			}
			fmt.Printf("Playing clip %d: %s\n", c.Index, c.Label())
			return mpv.Preview(c.Path, "")
		}
		return fmt.Errorf("no clip %d in the latest preview", index)
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// manifestClips loads the latest run and its clips for a clips subcommand.
func manifestClips(cmd *cobra.Command) (*db.Run, []db.Clip, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	out, err := outputDir(s)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.OpenExisting(out)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close()

	run, err := latestRun(conn)
	if err != nil {
		return nil, nil, err
	}
	clips, err := db.SelectClipsByRun(conn, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, clips, nil
}

func init() {
	for _, c := range []*cobra.Command{clipsListCmd, clipsPlayCmd} {
		c.Flags().String("video", "", "Main video file, used to find the default output directory")
		addOutputFlags(c)
	}
	clipsCmd.AddCommand(clipsListCmd)
	clipsCmd.AddCommand(clipsPlayCmd)
	rootCmd.AddCommand(clipsCmd)
}
