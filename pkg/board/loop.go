package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stationboard/pkg/config"
	"stationboard/pkg/display"
	"stationboard/pkg/logging"
	"stationboard/pkg/transit"
)

// Screen is where the loop sends its texts; *display.Scroller implements it.
type Screen interface {
	Show(ctx context.Context, text string) error
	Clear() error
}

// Clock provides time and blocking waits to the loop.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error { return display.Sleep(ctx, d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// State of the cached departures.
type State int

const (
	// Stale data is older than the fetch period, or there is none; the next step fetches.
	Stale State = iota
	// Fresh data is younger than the fetch period.
	Fresh
)

func (s State) String() string {
	if s == Fresh {
		return "fresh"
	}
	return "stale"
}

// Loop polls the stationboards and cycles the catchable departures of each line over a screen.
// It is single threaded: fetching and displaying never overlap.
type Loop struct {
	cfg     *config.AppConfig
	fetcher transit.StationboardFetcher
	screen  Screen
	loc     *time.Location
	clock   Clock
	logger  *slog.Logger

	groups    transit.LineGroups
	available bool
	lastFetch time.Time
}

// Option configures a Loop
type Option func(*Loop)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// New creates a Loop for the stops in cfg.
func New(cfg *config.AppConfig, fetcher transit.StationboardFetcher, screen Screen, logger *slog.Logger, opts ...Option) (*Loop, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		cfg:     cfg,
		fetcher: fetcher,
		screen:  screen,
		loc:     loc,
		clock:   RealClock,
		logger:  logger.With(slog.String("component", "board")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run loops until ctx is cancelled, which returns nil.
// A *transit.ConfigurationError ends the loop: it is a defect, not something to wait out.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// State reports whether the next Step fetches.
func (l *Loop) State() State {
	if !l.available || l.clock.Now().Sub(l.lastFetch) >= l.cfg.FetchPeriod {
		return Stale
	}
	return Fresh
}

// Step runs one iteration: fetch if stale, then one display cycle over all lines.
func (l *Loop) Step(ctx context.Context) error {
	if l.State() == Stale {
		l.refresh(ctx)
	}

	if !l.available {
		return l.screen.Show(ctx, l.cfg.StatusText)
	}

	if len(l.groups) == 0 {
		if err := l.screen.Clear(); err != nil {
			return err
		}
		return l.clock.Sleep(ctx, l.lastFetch.Add(l.cfg.FetchPeriod).Sub(l.clock.Now()))
	}

	for _, group := range l.groups {
		texts, err := transit.DisplayTexts(group.Connections, l.cfg.Stops, l.clock.Now())
		if err != nil {
			return fmt.Errorf("line %s: %w", group.Line, err)
		}
		if err := l.screen.Show(ctx, transit.FormatLine(group.Line, texts, l.cfg.ShowConnections)); err != nil {
			return err
		}
	}
	return nil
}

// refresh replaces the cached groups wholesale. On failure nothing is kept.
func (l *Loop) refresh(ctx context.Context) {
	start := l.clock.Now()

	groups, err := transit.FetchConnections(ctx, l.fetcher, l.cfg.Stops, l.loc)
	if err != nil {
		l.groups, l.available = nil, false
		if ctx.Err() == nil {
			logging.LogError(l.logger, "fetching stationboards failed", err)
		}
		return
	}

	l.groups, l.available = groups, true
	l.lastFetch = l.clock.Now()

	logging.LogOperation(l.logger, "stationboards fetched",
		slog.Int("stops", len(l.cfg.Stops)),
		slog.Int("lines", len(groups)),
		slog.Duration("duration", l.lastFetch.Sub(start)))
}

// Groups returns the cached departures, or nil after a failed fetch.
func (l *Loop) Groups() transit.LineGroups {
	return l.groups
}
