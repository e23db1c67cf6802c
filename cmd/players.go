package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/events"
	"github.com/user/stream-auto-editor/tui/styles"
)

var playersCmd = &cobra.Command{
	Use:   "players <log>",
	Short: "List the players in a kill log",
	Long:  `List every killer and victim in a kill log with their kill counts. Missing names are shown as "Unknown".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evs, err := events.Load(args[0])
		if err != nil {
			return err
		}
		if len(evs) == 0 {
			fmt.Println("No kills in this log.")
			return nil
		}

		counts := events.KillCounts(evs)
		deaths := make(map[string]int)
		for _, ev := range evs {
			deaths[ev.Killed]++
		}

		fmt.Println(styles.Title.Render(fmt.Sprintf("%d kills", len(evs))))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Player\tKills\tDeaths")
		fmt.Fprintln(w, "------\t-----\t------")
		for _, p := range events.Players(evs) {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p, counts[p], deaths[p])
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(playersCmd)
}
