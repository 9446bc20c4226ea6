package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stationboard/pkg/board"
	"stationboard/pkg/config"
	"stationboard/pkg/display"
	"stationboard/pkg/exporter"
	"stationboard/pkg/logging"
	"stationboard/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	lineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	previewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const allStops = ""

// RunDeparturesTUI asks for a stop and prints what can still be caught there.
func RunDeparturesTUI(ctx context.Context, cfg *config.AppConfig) error {
	stopName := allStops
	options := []huh.Option[string]{huh.NewOption("All stops", allStops)}
	for _, s := range cfg.Stops {
		options = append(options, huh.NewOption(s.Name, s.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which stop?").
				Options(options...).
				Value(&stopName),
		),
	).WithTheme(GetTheme(cfg))

	if err := form.Run(); err != nil {
		return err
	}

	if stopName != allStops {
		cfg, _ = board.OnlyStop(cfg, stopName)
	}

	now := time.Now()
	snaps, err := fetchSnapshots(ctx, cfg, now, "Fetching live departures...")
	if err != nil {
		return fmt.Errorf("could not fetch departures: %w", err)
	}

	if len(snaps) == 0 {
		fmt.Println(errorStyle.Render("No departures on the configured lines right now."))
		return nil
	}

	fmt.Println(accentStyle.Render("\n--- 🚋 Catchable Departures ---"))
	fmt.Print(renderSnapshots(snaps, now))
	fmt.Println()
	return nil
}

// RunExportTUI asks for a file name and writes the catchable departures as ICS.
func RunExportTUI(ctx context.Context, cfg *config.AppConfig) error {
	output := "departures.ics"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export to which file?").
				Value(&output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("file name must not be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme(cfg))

	if err := form.Run(); err != nil {
		return err
	}

	now := time.Now()
	snaps, err := fetchSnapshots(ctx, cfg, now, fmt.Sprintf("Exporting departures to %s...", output))
	if err != nil {
		return fmt.Errorf("could not fetch departures: %w", err)
	}

	conns := board.Flatten(snaps)
	if len(conns) == 0 {
		fmt.Println(errorStyle.Render("Nothing catchable to export right now."))
		return nil
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.GenerateICS(conns, file, now); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Exported %d departures to %s\n", len(conns), output)))
	return nil
}

// RunBoardTUI runs the board loop in the terminal until interrupted.
func RunBoardTUI(ctx context.Context, cfg *config.AppConfig) error {
	logger := logging.FromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen := display.NewScroller(display.NewTerminal(os.Stdout, cfg.DisplayWidth), cfg.DisplayWidth, cfg.Brightness, logger)
	loop, err := board.New(cfg, newClient(cfg), screen, logger)
	if err != nil {
		return err
	}

	fmt.Println(mutedStyle.Render("Press Ctrl+C to stop the board."))
	err = loop.Run(ctx)
	_ = screen.Clear()
	fmt.Println()
	return err
}

func fetchSnapshots(ctx context.Context, cfg *config.AppConfig, now time.Time, title string) ([]board.LineSnapshot, error) {
	client := newClient(cfg)
	var snaps []board.LineSnapshot
	var err error

	_ = spinner.New().
		Title(title).
		Action(func() {
			snaps, err = board.Snapshot(ctx, cfg, client, now)
		}).
		Run()

	return snaps, err
}

// renderSnapshots lists every line with its catchable departures and the text the board would scroll.
func renderSnapshots(snaps []board.LineSnapshot, now time.Time) string {
	var b strings.Builder
	for _, snap := range snaps {
		fmt.Fprintf(&b, "\n%s\n", lineStyle.Render(snap.Line))
		if len(snap.Connections) == 0 {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render("nothing catchable"))
		}
		for _, c := range snap.Connections {
			delay := ""
			if c.DelayMinutes > 0 {
				delay = errorStyle.Render(fmt.Sprintf(" (+%d min delay)", c.DelayMinutes))
			}
			fmt.Fprintf(&b, "  • [%s]%s -> %s, in %s min from %s\n",
				timeStyle.Render(c.Scheduled.Format("15:04")), delay,
				c.Terminal, transit.FormatConnection(c, now), c.StopName)
		}
		fmt.Fprintf(&b, "  %s\n", previewStyle.Render(snap.Text))
	}
	return b.String()
}
