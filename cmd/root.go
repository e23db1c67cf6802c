package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/user/stream-auto-editor/config"
	"github.com/user/stream-auto-editor/deps"
	"github.com/user/stream-auto-editor/tui/styles"
)

var Version = "0.1.0"

// logger is the diagnostics logger, set up before every command runs.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "stream-auto-editor",
	Short: "Cut kill highlights out of a recorded stream",
	Long: `stream-auto-editor reads a game's kill log, works out where every kill
happens in a recorded stream and cuts the matching clips.

Workflow:
  - players   list who appears in a kill log
  - plan      show the clips a set of settings would produce
  - preview   extract the clips (optionally side by side with a companion video)
  - pick      choose which clips to keep
  - final     join the chosen clips, with optional intro and outro`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)
		return nil
	},
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stream-auto-editor version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the external tools (ffmpeg, mpv) are installed and available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		missing := make(map[string]*deps.DependencyError)
		for _, err := range deps.CheckAll() {
			var de *deps.DependencyError
			if errors.As(err, &de) {
				missing[de.Name] = de
			}
		}

		for _, tool := range []struct {
			name, binary, note string
		}{
			{"ffmpeg", deps.Ffmpeg(), ""},
			{"mpv", deps.Mpv(), " (only needed for previews)"},
		} {
			if de, ok := missing[tool.name]; ok {
				fmt.Println(styles.Warning.Render("✗ "+tool.name+": NOT FOUND") + tool.note)
				fmt.Println("  " + de.Error())
				continue
			}
			fmt.Println(styles.Success.Render("✓ "+tool.name+": OK") + " (" + tool.binary + ")")
		}

		fmt.Println()
		if _, ok := missing["ffmpeg"]; ok {
			return fmt.Errorf("ffmpeg is required to extract clips")
		}
		fmt.Println("All required dependencies are installed!")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML settings file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log ffmpeg invocations and other diagnostics")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Warning.Render("Error:"), err)
		os.Exit(1)
	}
}
