package cmd

import (
	"log/slog"
	"os"
	"time"

	"stationboard/pkg/config"
	"stationboard/pkg/logging"
	"stationboard/pkg/transit"

	"github.com/charmbracelet/huh/spinner"
)

// oneShotCacheTTL lets repeated one-shot queries within a few seconds share a response.
const oneShotCacheTTL = 15 * time.Second

func newLogger() (*slog.Logger, error) {
	name := logLevel
	if name == "" {
		name = os.Getenv("STATIONBOARD_LOG_LEVEL")
	}
	if name == "" {
		name = "info"
	}

	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.NewStructuredLogger(os.Stderr, level, logFormat), nil
}

func loadConfig() (*config.AppConfig, error) {
	return config.Load(cfgPath)
}

func newClient(cfg *config.AppConfig, cacheTTL time.Duration) *transit.Client {
	return transit.NewClient(
		transit.WithBaseURL(cfg.APIURL),
		transit.WithLimit(cfg.Limit),
		transit.WithCache(cacheTTL),
	)
}

// withSpinner runs action behind a spinner. Without a terminal the spinner
// cannot start, so the action then runs plainly.
func withSpinner(title string, action func()) {
	ran := false
	_ = spinner.New().
		Title(title).
		Action(func() {
			ran = true
			action()
		}).
		Run()

	if !ran {
		action()
	}
}
