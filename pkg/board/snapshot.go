package board

import (
	"context"
	"time"

	"stationboard/pkg/config"
	"stationboard/pkg/transit"
)

// LineSnapshot is what one line looks like right now.
type LineSnapshot struct {
	Line        string
	Connections []transit.Connection // catchable, in API order
	Text        string               // as it would scroll on the display
}

// Snapshot fetches once and evaluates every line at now, for one-shot views and exports.
func Snapshot(ctx context.Context, cfg *config.AppConfig, fetcher transit.StationboardFetcher, now time.Time) ([]LineSnapshot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	groups, err := transit.FetchConnections(ctx, fetcher, cfg.Stops, loc)
	if err != nil {
		return nil, err
	}

	snapshots := make([]LineSnapshot, 0, len(groups))
	for _, group := range groups {
		snap := LineSnapshot{Line: group.Line}
		var texts []string
		for conn, err := range transit.EligibleConnections(group.Connections, cfg.Stops, now) {
			if err != nil {
				return nil, err
			}
			snap.Connections = append(snap.Connections, conn)
			texts = append(texts, transit.FormatConnection(conn, now))
		}
		snap.Text = transit.FormatLine(group.Line, texts, cfg.ShowConnections)
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Flatten returns the connections of all snapshots, line by line.
func Flatten(snapshots []LineSnapshot) []transit.Connection {
	var conns []transit.Connection
	for _, s := range snapshots {
		conns = append(conns, s.Connections...)
	}
	return conns
}

// OnlyStop returns a copy of cfg restricted to the named stop.
func OnlyStop(cfg *config.AppConfig, name string) (*config.AppConfig, bool) {
	stop, ok := cfg.Stops.Find(name)
	if !ok {
		return nil, false
	}
	restricted := *cfg
	restricted.Stops = config.Stops{stop}
	return &restricted, true
}
