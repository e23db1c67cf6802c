package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/pkg/timeutil"
	"github.com/user/stream-auto-editor/plan"
	"github.com/user/stream-auto-editor/tui/styles"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the clips the current settings produce",
	Long:  `Plan the clips without extracting anything: filter the log, map kills to video time, merge overlapping windows and, with a companion video, sync each clip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		p, err := buildPlan(s)
		if err != nil {
			return err
		}
		printPlan(p)
		return nil
	},
}

func printPlan(p *plan.Plan) {
	fmt.Println(styles.Title.Render(fmt.Sprintf("%d clips from %d matching kills", len(p.Clips), len(p.Matched))))
	if len(p.Rejected) > 0 {
		fmt.Println(styles.Warning.Render(fmt.Sprintf("%d windows skipped (no duration)", len(p.Rejected))))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if p.DualStream() {
		fmt.Fprintln(w, "#\tStart\tEnd\tDuration\tCompanion\tKills")
		fmt.Fprintln(w, "-\t-----\t---\t--------\t---------\t-----")
	} else {
		fmt.Fprintln(w, "#\tStart\tEnd\tDuration\tKills")
		fmt.Fprintln(w, "-\t-----\t---\t--------\t-----")
	}
	for _, spec := range p.Specs {
		cols := []string{
			fmt.Sprint(spec.Index),
			timeutil.FormatClock(spec.Source.Start),
			timeutil.FormatClock(spec.Source.End()),
			timeutil.FormatSeconds(spec.Source.Duration),
		}
		if spec.Companion != nil {
			cols = append(cols, timeutil.FormatClock(spec.Companion.Start))
		}
		cols = append(cols, spec.Label())
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	w.Flush()
}

func init() {
	addSourceFlags(planCmd)
	addPlanFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}
