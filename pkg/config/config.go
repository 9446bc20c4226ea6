package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL          = "https://fahrplan.search.ch/api"
	DefaultFetchPeriod     = 30 * time.Second
	DefaultShowConnections = 2
	DefaultLimit           = 20
	DefaultStatusText      = "no connection"
	DefaultBrightness      = 0.4
	DefaultDisplayWidth    = 17

	// walkingSpeedKMH is the pace used to turn a distance into a walk time.
	walkingSpeedKMH = 6.5
	// walkOverhead covers stairs, crossings and leaving the house.
	walkOverhead = 60 * time.Second
)

// Stop describes a monitored stop: which lines and directions matter there and how long it takes to get there.
type Stop struct {
	Name string `yaml:"name"`
	// Terminals maps a line id to the terminal names that identify the wanted direction.
	Terminals map[string][]string `yaml:"terminals"`
	WalkTime  time.Duration       `yaml:"walk_time,omitempty"`
	// WalkDistance in metres; only used when WalkTime is not set.
	WalkDistance float64 `yaml:"walk_distance_m,omitempty"`
}

// WalkDuration returns the configured walk time, deriving it from WalkDistance when needed.
func (s Stop) WalkDuration() time.Duration {
	if s.WalkTime > 0 || s.WalkDistance <= 0 {
		return s.WalkTime
	}
	return WalkTimeForDistance(s.WalkDistance)
}

// AcceptsTerminal reports whether terminal is a wanted direction for line at this stop.
func (s Stop) AcceptsTerminal(line, terminal string) bool {
	for _, t := range s.Terminals[line] {
		if t == terminal {
			return true
		}
	}
	return false
}

// WalkTimeForDistance estimates the time needed to walk metres to a stop.
func WalkTimeForDistance(metres float64) time.Duration {
	seconds := metres * 3.6 / walkingSpeedKMH
	return time.Duration(math.Round(seconds*float64(time.Second))) + walkOverhead
}

// Stops is the ordered list of monitored stops.
type Stops []Stop

// Find returns the stop with exactly the given name.
func (s Stops) Find(name string) (Stop, bool) {
	for _, stop := range s {
		if stop.Name == name {
			return stop, true
		}
	}
	return Stop{}, false
}

// AppConfig holds all user-defined settings
type AppConfig struct {
	APIURL          string        `yaml:"api_url,omitempty"`
	FetchPeriod     time.Duration `yaml:"fetch_period,omitempty"`
	ShowConnections int           `yaml:"show_connections,omitempty"`
	Limit           int           `yaml:"limit,omitempty"`
	Timezone        string        `yaml:"timezone,omitempty"`
	StatusText      string        `yaml:"status_text,omitempty"`
	Brightness      float64       `yaml:"brightness,omitempty"`
	DisplayWidth    int           `yaml:"display_width,omitempty"`
	AccentColor     string        `yaml:"accent_color,omitempty"`
	Stops           Stops         `yaml:"stops"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *AppConfig {
	cfg := &AppConfig{
		Stops: Stops{
			{
				Name: "Zürich, Brunau/Mutschellenstr.",
				Terminals: map[string][]string{
					"72": {"Zürich, Milchbuck", "Zürich, Albisriederplatz"},
				},
				WalkDistance: 320,
			},
			{
				Name: "Zürich, Brunaustrasse",
				Terminals: map[string][]string{
					"7":  {"Stettbach, Bahnhof"},
					"8":  {"Zürich, Hardturm"},
					"13": {"Zürich, Albisgütli"},
				},
				WalkDistance: 320,
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.FetchPeriod <= 0 {
		c.FetchPeriod = DefaultFetchPeriod
	}
	if c.ShowConnections <= 0 {
		c.ShowConnections = DefaultShowConnections
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.StatusText == "" {
		c.StatusText = DefaultStatusText
	}
	if c.Brightness <= 0 {
		c.Brightness = DefaultBrightness
	}
	if c.DisplayWidth <= 0 {
		c.DisplayWidth = DefaultDisplayWidth
	}
}

func (c *AppConfig) applyEnv() {
	if url := os.Getenv("STATIONBOARD_API_URL"); url != "" {
		c.APIURL = url
	}
}

// Location resolves the configured timezone. Departure times are interpreted in it.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the stop list for mistakes that would make every poll useless.
func (c *AppConfig) Validate() error {
	if len(c.Stops) == 0 {
		return errors.New("no stops configured")
	}

	seen := make(map[string]bool)
	for i, s := range c.Stops {
		if s.Name == "" {
			return fmt.Errorf("stop #%d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("stop %q is configured twice", s.Name)
		}
		seen[s.Name] = true

		if len(s.Terminals) == 0 {
			return fmt.Errorf("stop %q has no lines", s.Name)
		}
		for line, terminals := range s.Terminals {
			if len(terminals) == 0 {
				return fmt.Errorf("line %s at stop %q has no terminals", line, s.Name)
			}
		}
		if s.WalkTime < 0 || s.WalkDistance < 0 {
			return fmt.Errorf("stop %q has a negative walk time", s.Name)
		}
	}
	return nil
}

// DefaultPath returns the absolute path to ~/.stationboard.yaml,
// unless STATIONBOARD_CONFIG points somewhere else.
func DefaultPath() (string, error) {
	if p := os.Getenv("STATIONBOARD_CONFIG"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".stationboard.yaml"), nil
}

// Load reads the configuration from path, or from DefaultPath when path is empty.
// Returns the built-in defaults if the file does not exist.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the configuration back to path, or to DefaultPath when path is empty.
func Save(path string, cfg *AppConfig) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
