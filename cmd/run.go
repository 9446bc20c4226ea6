package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stationboard/pkg/board"
	"stationboard/pkg/display"
	"stationboard/pkg/logging"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the departure board",
	Long: `Poll the configured stops every fetch period and scroll the catchable
departures of each line across the terminal LED display until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("width") {
			cfg.DisplayWidth, _ = cmd.Flags().GetInt("width")
		}
		if cmd.Flags().Changed("brightness") {
			cfg.Brightness, _ = cmd.Flags().GetFloat64("brightness")
		}
		plain, _ := cmd.Flags().GetBool("plain")

		var driver display.Driver = display.NewTerminal(cmd.OutOrStdout(), cfg.DisplayWidth)
		if plain {
			driver = display.NewPlain(cmd.OutOrStdout())
		}
		screen := display.NewScroller(driver, cfg.DisplayWidth, cfg.Brightness, logger)

		// The loop is the only user of the client and polls slower than any cache would expire.
		loop, err := board.New(cfg, newClient(cfg, 0), screen, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.LogOperation(logger, "board started",
			slog.Int("stops", len(cfg.Stops)),
			slog.Duration("fetch_period", cfg.FetchPeriod),
			slog.Int("width", cfg.DisplayWidth))

		if err := loop.Run(ctx); err != nil {
			logging.LogError(logger, "board stopped", err)
			return err
		}

		_ = screen.Clear()
		logging.LogOperation(logger, "board stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntP("width", "w", 17, "Display width in columns")
	runCmd.Flags().Float64P("brightness", "b", 0.4, "LED brightness between 0 and 1")
	runCmd.Flags().Bool("plain", false, "Print each text as a line instead of animating")
}
