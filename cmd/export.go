package cmd

import (
	"fmt"
	"os"
	"time"

	"stationboard/pkg/board"
	"stationboard/pkg/exporter"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catchable departures to an ICS file",
	Long:  `Fetch the configured stops once and write every departure you can still catch as a calendar event.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := newClient(cfg, oneShotCacheTTL)
		now := time.Now()

		var snaps []board.LineSnapshot
		withSpinner(fmt.Sprintf("Exporting departures to %s...", output), func() {
			snaps, err = board.Snapshot(cmd.Context(), cfg, client, now)
		})
		if err != nil {
			return fmt.Errorf("failed to fetch departures: %w", err)
		}

		conns := board.Flatten(snaps)
		if len(conns) == 0 {
			return fmt.Errorf("no catchable departures right now")
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.GenerateICS(conns, file, now); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully exported %d departures to %s\n", len(conns), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "departures.ics", "Output file path")
}
