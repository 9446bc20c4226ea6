package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"stationboard/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI(cfgPath string) error {
	for {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Add or Replace a Stop", "add"),
						huh.NewOption("Remove a Stop", "remove"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme(cfg))

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfgPath, cfg)
		case "add":
			err = runAddStopTUI(cfgPath, cfg)
		case "remove":
			err = runRemoveStopTUI(cfgPath, cfg)
		case "view":
			fmt.Println(accentStyle.Render("\n--- Current Configuration ---"))
			fmt.Print(describeConfig(cfg))
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

func describeConfig(cfg *config.AppConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "API: %s\n", cfg.APIURL)
	fmt.Fprintf(&b, "Fetch period: %s\n", cfg.FetchPeriod)
	fmt.Fprintf(&b, "Connections per line: %d\n", cfg.ShowConnections)
	fmt.Fprintf(&b, "Accent Color: %s\n", cfg.AccentColor)
	for _, s := range cfg.Stops {
		fmt.Fprintf(&b, "\n%s (walk %s)\n", s.Name, s.WalkDuration())
		lines := make([]string, 0, len(s.Terminals))
		for line := range s.Terminals {
			lines = append(lines, line)
		}
		slices.Sort(lines)
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s -> %s\n", line, strings.Join(s.Terminals[line], ", "))
		}
	}
	return b.String()
}

func runAddStopTUI(cfgPath string, cfg *config.AppConfig) error {
	var (
		name      string
		line      string
		terminals string
		distance  = "300"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stop name").
				Description("Exactly as the stationboard spells it.").
				Placeholder("Zürich, Brunaustrasse").
				Value(&name).
				Validate(notEmpty("stop name")),
			huh.NewInput().
				Title("Line").
				Placeholder("8").
				Value(&line).
				Validate(notEmpty("line")),
			huh.NewText().
				Title("Terminals").
				Description("One terminal per line. Only departures towards these are shown.").
				Value(&terminals).
				Validate(func(s string) error {
					if len(splitTerminals(s)) == 0 {
						return errors.New("at least one terminal is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Walking distance in metres").
				Value(&distance).
				Validate(func(s string) error {
					_, err := parseDistance(s)
					return err
				}),
		),
	).WithTheme(GetTheme(cfg))

	if err := form.Run(); err != nil {
		return err
	}

	metres, _ := parseDistance(distance)
	addStop(cfg, strings.TrimSpace(name), strings.TrimSpace(line), splitTerminals(terminals), metres)

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Saved line %s at %s.\n", strings.TrimSpace(line), strings.TrimSpace(name))))
	return nil
}

func runRemoveStopTUI(cfgPath string, cfg *config.AppConfig) error {
	if len(cfg.Stops) <= 1 {
		fmt.Println(errorStyle.Render("The board needs at least one stop."))
		return nil
	}

	var options []huh.Option[string]
	for _, s := range cfg.Stops {
		options = append(options, huh.NewOption(s.Name, s.Name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which stop should be removed?").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(GetTheme(cfg))

	if err := form.Run(); err != nil {
		return err
	}

	removeStop(cfg, selected)
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Removed %s.\n", selected)))
	return nil
}

// addStop sets the terminals of line at the named stop, creating the stop if needed.
func addStop(cfg *config.AppConfig, name, line string, terminals []string, metres float64) {
	for i := range cfg.Stops {
		if cfg.Stops[i].Name == name {
			if cfg.Stops[i].Terminals == nil {
				cfg.Stops[i].Terminals = make(map[string][]string)
			}
			cfg.Stops[i].Terminals[line] = terminals
			cfg.Stops[i].WalkTime = 0
			cfg.Stops[i].WalkDistance = metres
			return
		}
	}
	cfg.Stops = append(cfg.Stops, config.Stop{
		Name:         name,
		Terminals:    map[string][]string{line: terminals},
		WalkDistance: metres,
	})
}

func removeStop(cfg *config.AppConfig, name string) {
	cfg.Stops = slices.DeleteFunc(cfg.Stops, func(s config.Stop) bool { return s.Name == name })
}

func splitTerminals(text string) []string {
	var terminals []string
	for _, t := range strings.Split(text, "\n") {
		if t = strings.TrimSpace(t); t != "" {
			terminals = append(terminals, t)
		}
	}
	return terminals
}

func parseDistance(s string) (float64, error) {
	metres, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || metres < 0 {
		return 0, fmt.Errorf("%q is not a distance in metres", s)
	}
	return metres, nil
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", what)
		}
		return nil
	}
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfgPath string, cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for stationboard").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Violet", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s LED Amber", colorBlock("214")), "214"),
					huh.NewOption(fmt.Sprintf("%s Tram Blue", colorBlock("33")), "33"),
					huh.NewOption(fmt.Sprintf("%s Signal Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme(cfg))

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(validHex),
			),
		).WithTheme(GetTheme(cfg))

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.AccentColor)).Render("\n✅ The theme color is now saved.\n"))
	return nil
}

func validHex(s string) error {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return errors.New("must be a valid 6-character hex code starting with #")
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return errors.New("must be a valid 6-character hex code starting with #")
	}
	return nil
}
