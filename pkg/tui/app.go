package tui

import (
	"context"

	"stationboard/pkg/config"
	"stationboard/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const defaultAccent = "99"

var (
	// Fallbacks until GetTheme picks up the configured accent colour.
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// GetTheme builds the form theme from the configured accent colour.
func GetTheme(cfg *config.AppConfig) *huh.Theme {
	baseColor := defaultAccent
	if cfg != nil && cfg.AccentColor != "" {
		baseColor = cfg.AccentColor
	}

	// Plain prints outside of forms use the same accent
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor))

	return GetCustomTheme(baseColor)
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
// This is used for live-previewing styles before they are officially saved.
func GetCustomTheme(baseColor string) *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(baseColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

// RunTUI launches the main menu interactive form experience
func RunTUI(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	var action string

	initialForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("🚋 View Catchable Departures", "departures"),
					huh.NewOption("📅 Export Departures", "export"),
					huh.NewOption("💡 Run the Board", "board"),
					huh.NewOption("⚙️ Settings", "config"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme(cfg))

	if err := initialForm.Run(); err != nil {
		return err
	}

	switch action {
	case "export":
		return RunExportTUI(ctx, cfg)
	case "board":
		return RunBoardTUI(ctx, cfg)
	case "config":
		return RunConfigTUI(cfgPath)
	}
	return RunDeparturesTUI(ctx, cfg)
}

func newClient(cfg *config.AppConfig) *transit.Client {
	return transit.NewClient(
		transit.WithBaseURL(cfg.APIURL),
		transit.WithLimit(cfg.Limit),
	)
}
