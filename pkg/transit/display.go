package transit

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"stationboard/pkg/config"
)

// walkPaceFactor scales the nominal walk time; in a hurry we walk faster than the estimate.
const walkPaceFactor = 0.8

const secondsPerDay = 24 * 60 * 60

// EligibleConnections yields, in input order, the connections that can still be reached on foot.
// A connection whose stop is not configured ends the sequence with a *ConfigurationError.
func EligibleConnections(conns []Connection, stops config.Stops, now time.Time) iter.Seq2[Connection, error] {
	return func(yield func(Connection, error) bool) {
		for _, conn := range conns {
			stop, ok := stops.Find(conn.StopName)
			if !ok {
				yield(Connection{}, &ConfigurationError{Stop: conn.StopName})
				return
			}

			if !Catchable(conn, stop.WalkDuration(), now) {
				continue
			}
			if !yield(conn, nil) {
				return
			}
		}
	}
}

// ConnectionsForDisplay yields the display text of every eligible connection, e.g. "5" or "5+2".
func ConnectionsForDisplay(conns []Connection, stops config.Stops, now time.Time) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for conn, err := range EligibleConnections(conns, stops, now) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(FormatConnection(conn, now), nil) {
				return
			}
		}
	}
}

// DisplayTexts collects ConnectionsForDisplay.
func DisplayTexts(conns []Connection, stops config.Stops, now time.Time) ([]string, error) {
	var texts []string
	for text, err := range ConnectionsForDisplay(conns, stops, now) {
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Catchable reports whether someone leaving now reaches the stop no later than the delayed departure.
func Catchable(conn Connection, walk time.Duration, now time.Time) bool {
	walkArrival := now.Add(time.Duration(float64(walk) * walkPaceFactor))
	return !walkArrival.After(conn.Departure())
}

// FormatConnection renders the minutes until the scheduled departure, plus the delay if there is one.
func FormatConnection(conn Connection, now time.Time) string {
	text := strconv.Itoa(MinutesUntil(conn.Scheduled, now))
	if conn.DelayMinutes != 0 {
		text += "+" + strconv.Itoa(conn.DelayMinutes)
	}
	return text
}

// MinutesUntil counts whole minutes from now to t using only the time-of-day part of the difference,
// so it wraps for departures a day or more away and for departures already in the past.
func MinutesUntil(t, now time.Time) int {
	d := t.Sub(now)
	secs := int64(d / time.Second)
	if d%time.Second < 0 {
		secs--
	}
	secs %= secondsPerDay
	if secs < 0 {
		secs += secondsPerDay
	}
	return int(secs / 60)
}

// FormatLine builds the text scrolled for one line: the label followed by at most n departures.
func FormatLine(label string, texts []string, n int) string {
	n = max(n, 0)
	if len(texts) > n {
		texts = texts[:n]
	}
	return label + " " + strings.Join(texts, " ")
}
