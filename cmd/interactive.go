package cmd

import (
	"stationboard/pkg/logging"
	"stationboard/pkg/tui"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to browse departures, export them and manage stops interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		return tui.RunTUI(logging.WithLogger(cmd.Context(), logger), cfgPath)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
