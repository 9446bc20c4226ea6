package transit

import (
	"iter"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"stationboard/pkg/config"
)

// TimeLayout is the format of departure times in stationboard responses.
const TimeLayout = "2006-01-02 15:04:05"

// ExtractConnections turns a stop's raw stationboard into connections on the configured lines and directions.
//
// The sequence is finite and follows the API order. It ends after the first malformed record,
// yielding a *ParseError: a bad record invalidates the whole board.
func ExtractConnections(stop config.Stop, board *Stationboard, loc *time.Location) iter.Seq2[Connection, error] {
	return func(yield func(Connection, error) bool) {
		if board == nil || board.Connections == nil {
			return
		}

		stopName := board.Stop.Name
		if stopName == "" {
			stopName = stop.Name
		}

		for _, raw := range *board.Connections {
			// we don't care about this line
			if _, ok := stop.Terminals[raw.Line]; !ok {
				continue
			}
			// wrong direction
			if !stop.AcceptsTerminal(raw.Line, raw.Terminal.Name) {
				continue
			}

			conn, err := newConnection(raw, stopName, loc)
			if err != nil {
				yield(Connection{}, err)
				return
			}
			if !yield(conn, nil) {
				return
			}
		}
	}
}

func newConnection(raw RawConnection, stopName string, loc *time.Location) (Connection, error) {
	if loc == nil {
		loc = time.Local
	}

	scheduled, err := time.ParseInLocation(TimeLayout, raw.Time, loc)
	if err != nil {
		return Connection{}, &ParseError{Field: "time", Value: raw.Time, Err: err}
	}

	delay := 0
	if raw.DepDelay != nil {
		if delay, err = ParseDelay(*raw.DepDelay); err != nil {
			return Connection{}, err
		}
	}

	return Connection{
		Line:         lineLabel(raw),
		StopName:     stopName,
		Terminal:     raw.Terminal.Name,
		Scheduled:    scheduled,
		DelayMinutes: delay,
	}, nil
}

// ParseDelay reads a delay field such as "+3". Early departures count as on time.
func ParseDelay(s string) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "+")
	delay, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Field: "dep_delay", Value: s, Err: err}
	}
	return max(delay, 0), nil
}

// lineLabel is what the display shows: category initial plus line number, e.g. "T7".
func lineLabel(raw RawConnection) string {
	if raw.Category == "" {
		return raw.Number
	}
	r, _ := utf8.DecodeRuneInString(raw.Category)
	return string(r) + raw.Number
}
