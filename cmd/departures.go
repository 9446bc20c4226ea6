package cmd

import (
	"fmt"
	"strings"
	"time"

	"stationboard/pkg/board"
	"stationboard/pkg/config"
	"stationboard/pkg/transit"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var departuresCmd = &cobra.Command{
	Use:   "departures",
	Short: "List the departures you can still catch",
	Long:  "Fetch the configured stops once and print every catchable departure per line, as the board would show it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stopFlag, _ := cmd.Flags().GetString("stop")
		title := "all configured stops"
		if stopFlag != "" {
			stop, ok := findStop(cfg.Stops, stopFlag)
			if !ok {
				return fmt.Errorf("stop %q is not configured", stopFlag)
			}
			cfg, _ = board.OnlyStop(cfg, stop.Name)
			title = cases.Title(language.German).String(stopFlag)
		}

		client := newClient(cfg, oneShotCacheTTL)
		now := time.Now()

		var snaps []board.LineSnapshot
		withSpinner(fmt.Sprintf("Fetching live departures for %s...", title), func() {
			snaps, err = board.Snapshot(cmd.Context(), cfg, client, now)
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n--- 🚋 Next Departures: %s ---\n\n", title)

		if len(snaps) == 0 {
			fmt.Fprintln(out, "No departures on the configured lines right now.")
			return nil
		}

		tbl := table.New("Line", "Direction", "Stop", "Departs", "In").WithWriter(out)
		for _, snap := range snaps {
			if len(snap.Connections) == 0 {
				tbl.AddRow(snap.Line, "-", "-", "-", "nothing catchable")
				continue
			}
			for _, c := range snap.Connections {
				tbl.AddRow(c.Line, c.Terminal, c.StopName, departsAt(c), transit.FormatConnection(c, now))
			}
		}
		tbl.Print()

		fmt.Fprintln(out, "\nOn the display:")
		for _, snap := range snaps {
			fmt.Fprintf(out, "  %s\n", snap.Text)
		}
		return nil
	},
}

func departsAt(c transit.Connection) string {
	if c.DelayMinutes == 0 {
		return c.Scheduled.Format("15:04")
	}
	return fmt.Sprintf("%s (+%d)", c.Scheduled.Format("15:04"), c.DelayMinutes)
}

// findStop matches a stop name typed by the user, ignoring case.
func findStop(stops config.Stops, name string) (config.Stop, bool) {
	name = strings.TrimSpace(name)
	for _, s := range stops {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return config.Stop{}, false
}

func init() {
	rootCmd.AddCommand(departuresCmd)
	departuresCmd.Flags().StringP("stop", "s", "", "Only query this configured stop")
}
