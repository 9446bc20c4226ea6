package display

import (
	"context"
	"log/slog"
	"time"
)

// Driver is a small scrolling text matrix.
type Driver interface {
	// Clear blanks the buffer and resets the scroll position.
	Clear()
	// WriteString draws text into the buffer and returns its rendered width in columns.
	WriteString(text string, brightness float64) int
	// Show pushes the buffer to the output.
	Show() error
	// Scroll shifts the buffer one column to the left.
	Scroll()
}

// Timing controls scroll pacing.
type Timing struct {
	Hold time.Duration // before scrolling starts
	Step time.Duration // per column
	Tail time.Duration // after the last column
}

// DefaultTiming matches the pace of a Scroll pHAT HD.
var DefaultTiming = Timing{
	Hold: 700 * time.Millisecond,
	Step: 25 * time.Millisecond,
	Tail: 400 * time.Millisecond,
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-time SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Scroller shows one text at a time on a Driver and blocks until it has scrolled through.
type Scroller struct {
	driver     Driver
	width      int
	brightness float64
	timing     Timing
	sleep      SleepFunc
	logger     *slog.Logger
}

// NewScroller creates a Scroller for a display width columns wide.
func NewScroller(driver Driver, width int, brightness float64, logger *slog.Logger) *Scroller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scroller{
		driver:     driver,
		width:      width,
		brightness: brightness,
		timing:     DefaultTiming,
		sleep:      Sleep,
		logger:     logger,
	}
}

// WithTiming replaces the pacing.
func (s *Scroller) WithTiming(t Timing) *Scroller {
	s.timing = t
	return s
}

// WithSleep replaces the sleep function, mostly for tests.
func (s *Scroller) WithSleep(fn SleepFunc) *Scroller {
	s.sleep = fn
	return s
}

// Show displays text, scrolls it until its end is visible, then holds briefly.
func (s *Scroller) Show(ctx context.Context, text string) error {
	s.logger.Debug("display text", slog.String("text", text))

	s.driver.Clear()
	length := s.driver.WriteString(text, s.brightness)
	if err := s.driver.Show(); err != nil {
		return err
	}
	if err := s.sleep(ctx, s.timing.Hold); err != nil {
		return err
	}

	for i := 0; i < length-s.width; i++ {
		s.driver.Scroll()
		if err := s.driver.Show(); err != nil {
			return err
		}
		if err := s.sleep(ctx, s.timing.Step); err != nil {
			return err
		}
	}

	return s.sleep(ctx, s.timing.Tail)
}

// Clear blanks the display.
func (s *Scroller) Clear() error {
	s.driver.Clear()
	return s.driver.Show()
}
