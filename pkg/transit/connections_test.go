package transit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationboard/pkg/config"
)

func strPtr(s string) *string { return &s }

var brunaustrasse = config.Stop{
	Name: "Zürich, Brunaustrasse",
	Terminals: map[string][]string{
		"7": {"Stettbach, Bahnhof"},
		"8": {"Zürich, Hardturm"},
	},
	WalkTime: time.Minute,
}

func board(stopName string, conns ...RawConnection) *Stationboard {
	return &Stationboard{Stop: StopInfo{Name: stopName}, Connections: &conns}
}

func raw(line, category, terminal, at string, delay *string) RawConnection {
	return RawConnection{
		Time:     at,
		Line:     line,
		Category: category,
		Number:   line,
		Terminal: Terminal{Name: terminal},
		DepDelay: delay,
	}
}

func collect(t *testing.T, stop config.Stop, b *Stationboard) []Connection {
	t.Helper()
	var conns []Connection
	for conn, err := range ExtractConnections(stop, b, time.UTC) {
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	return conns
}

func TestExtractConnections(t *testing.T) {
	t.Run("keeps only configured lines and terminals", func(t *testing.T) {
		b := board("Zürich, Brunaustrasse",
			raw("7", "Tram", "Stettbach, Bahnhof", "2026-02-25 08:05:00", nil),
			raw("7", "Tram", "Zürich, Wollishofen", "2026-02-25 08:06:00", nil),
			raw("13", "Tram", "Zürich, Albisgütli", "2026-02-25 08:07:00", nil),
			raw("8", "Tram", "Zürich, Hardturm", "2026-02-25 08:08:00", strPtr("+3")),
			raw("72", "Bus", "Zürich, Milchbuck", "2026-02-25 08:09:00", nil),
		)

		conns := collect(t, brunaustrasse, b)
		require.Len(t, conns, 2)

		for _, c := range conns {
			assert.Contains(t, []string{"T7", "T8"}, c.Line)
			assert.True(t, brunaustrasse.AcceptsTerminal(c.Line[1:], c.Terminal))
		}

		assert.Equal(t, Connection{
			Line:         "T7",
			StopName:     "Zürich, Brunaustrasse",
			Terminal:     "Stettbach, Bahnhof",
			Scheduled:    time.Date(2026, 2, 25, 8, 5, 0, 0, time.UTC),
			DelayMinutes: 0,
		}, conns[0])
		assert.Equal(t, 3, conns[1].DelayMinutes)
	})

	t.Run("uses the stop name reported by the API", func(t *testing.T) {
		b := board("Zürich, Brunaustr.", raw("7", "T", "Stettbach, Bahnhof", "2026-02-25 08:05:00", nil))
		conns := collect(t, brunaustrasse, b)
		require.Len(t, conns, 1)
		assert.Equal(t, "Zürich, Brunaustr.", conns[0].StopName)

		b.Stop.Name = ""
		conns = collect(t, brunaustrasse, b)
		assert.Equal(t, brunaustrasse.Name, conns[0].StopName)
	})

	t.Run("label falls back to the number without category", func(t *testing.T) {
		b := board("Zürich, Brunaustrasse", raw("8", "", "Zürich, Hardturm", "2026-02-25 08:05:00", nil))
		conns := collect(t, brunaustrasse, b)
		assert.Equal(t, "8", conns[0].Line)
	})

	t.Run("malformed time aborts the sequence", func(t *testing.T) {
		b := board("Zürich, Brunaustrasse",
			raw("7", "T", "Stettbach, Bahnhof", "2026-02-25 08:05:00", nil),
			raw("8", "T", "Zürich, Hardturm", "25.02.2026 08:07", nil),
			raw("7", "T", "Stettbach, Bahnhof", "2026-02-25 08:15:00", nil),
		)

		var got []Connection
		var gotErr error
		for conn, err := range ExtractConnections(brunaustrasse, b, time.UTC) {
			if err != nil {
				gotErr = err
				break
			}
			got = append(got, conn)
		}

		var parseErr *ParseError
		require.ErrorAs(t, gotErr, &parseErr)
		assert.Equal(t, "time", parseErr.Field)
		assert.Len(t, got, 1)
	})

	t.Run("malformed delay aborts the sequence", func(t *testing.T) {
		b := board("Zürich, Brunaustrasse", raw("8", "T", "Zürich, Hardturm", "2026-02-25 08:05:00", strPtr("X")))
		_, err := GroupByLine(ExtractConnections(brunaustrasse, b, time.UTC))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "dep_delay", parseErr.Field)
		assert.True(t, IsRecoverable(err))
	})

	t.Run("filtered records are never parsed", func(t *testing.T) {
		b := board("Zürich, Brunaustrasse", raw("72", "B", "Zürich, Milchbuck", "garbage", strPtr("garbage")))
		assert.Empty(t, collect(t, brunaustrasse, b))
	})

	t.Run("nil board yields nothing", func(t *testing.T) {
		assert.Empty(t, collect(t, brunaustrasse, nil))
	})
}

func TestParseDelay(t *testing.T) {
	cases := map[string]int{
		"+3":   3,
		"3":    3,
		"+0":   0,
		" +12": 12,
		"-1":   0,
	}
	for in, want := range cases {
		got, err := ParseDelay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDelay("")
	assert.Error(t, err)
}

func TestGroupByLine(t *testing.T) {
	stopA := Connection{Line: "72", StopName: "A"}
	stopB8 := Connection{Line: "8", StopName: "B"}
	stopB72 := Connection{Line: "72", StopName: "B"}

	groups, err := GroupByLine(func(yield func(Connection, error) bool) {
		for _, c := range []Connection{stopA, stopB8, stopB72} {
			if !yield(c, nil) {
				return
			}
		}
	})
	require.NoError(t, err)

	assert.Equal(t, LineGroups{
		{Line: "72", Connections: []Connection{stopA, stopB72}},
		{Line: "8", Connections: []Connection{stopB8}},
	}, groups)

	g, ok := groups.Lookup("8")
	assert.True(t, ok)
	assert.Equal(t, []Connection{stopB8}, g.Connections)

	_, ok = groups.Lookup("13")
	assert.False(t, ok)
}

type fakeFetcher struct {
	boards map[string]*Stationboard
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) FetchStationboard(_ context.Context, stop string) (*Stationboard, error) {
	f.calls = append(f.calls, stop)
	if err := f.errs[stop]; err != nil {
		return nil, err
	}
	return f.boards[stop], nil
}

func TestFetchConnections(t *testing.T) {
	brunau := config.Stop{
		Name:      "Zürich, Brunau/Mutschellenstr.",
		Terminals: map[string][]string{"72": {"Zürich, Milchbuck"}},
	}
	brunaustr := config.Stop{
		Name:      "Zürich, Brunaustrasse",
		Terminals: map[string][]string{"72": {"Zürich, Milchbuck"}, "8": {"Zürich, Hardturm"}},
	}
	stops := config.Stops{brunau, brunaustr}

	fetcher := &fakeFetcher{boards: map[string]*Stationboard{
		brunau.Name: board(brunau.Name,
			raw("72", "B", "Zürich, Milchbuck", "2026-02-25 08:05:00", nil)),
		brunaustr.Name: board(brunaustr.Name,
			raw("8", "T", "Zürich, Hardturm", "2026-02-25 08:03:00", nil),
			raw("72", "B", "Zürich, Milchbuck", "2026-02-25 08:04:00", nil)),
	}}

	t.Run("groups across stops in configured order", func(t *testing.T) {
		groups, err := FetchConnections(context.Background(), fetcher, stops, time.UTC)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, "B72", groups[0].Line)
		require.Len(t, groups[0].Connections, 2)
		assert.Equal(t, brunau.Name, groups[0].Connections[0].StopName)
		assert.Equal(t, brunaustr.Name, groups[0].Connections[1].StopName)
		// not sorted: the later departure from the first stop stays first
		assert.True(t, groups[0].Connections[0].Scheduled.After(groups[0].Connections[1].Scheduled))

		assert.Equal(t, "T8", groups[1].Line)
	})

	t.Run("any failure discards everything", func(t *testing.T) {
		failing := &fakeFetcher{
			boards: fetcher.boards,
			errs:   map[string]error{brunaustr.Name: &APIError{Stop: brunaustr.Name}},
		}

		groups, err := FetchConnections(context.Background(), failing, stops, time.UTC)
		assert.Nil(t, groups)

		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, []string{brunau.Name, brunaustr.Name}, failing.calls)
	})

	t.Run("stops after the first failing stop", func(t *testing.T) {
		failing := &fakeFetcher{errs: map[string]error{brunau.Name: errors.New("dial tcp: timeout")}}

		_, err := FetchConnections(context.Background(), failing, stops, time.UTC)
		assert.Error(t, err)
		assert.Equal(t, []string{brunau.Name}, failing.calls)
	})
}
