package transit

import (
	"context"
	"iter"
	"time"

	"stationboard/pkg/config"
)

// LineGroup holds the connections of one line label across all stops.
type LineGroup struct {
	Line        string
	Connections []Connection
}

// LineGroups is ordered by first appearance of each line.
type LineGroups []LineGroup

// Lookup returns the group for a line label.
func (g LineGroups) Lookup(line string) (LineGroup, bool) {
	for _, group := range g {
		if group.Line == line {
			return group, true
		}
	}
	return LineGroup{}, false
}

// GroupByLine collects connections per line label. Order within a line is the input order;
// nothing is sorted by time. The first error aborts and no partial result is returned.
func GroupByLine(conns iter.Seq2[Connection, error]) (LineGroups, error) {
	index := make(map[string]int)
	var groups LineGroups

	for conn, err := range conns {
		if err != nil {
			return nil, err
		}

		i, exists := index[conn.Line]
		if !exists {
			i = len(groups)
			index[conn.Line] = i
			groups = append(groups, LineGroup{Line: conn.Line})
		}
		groups[i].Connections = append(groups[i].Connections, conn)
	}

	return groups, nil
}

// StationboardFetcher is the capability FetchConnections needs; *Client implements it.
type StationboardFetcher interface {
	FetchStationboard(ctx context.Context, stop string) (*Stationboard, error)
}

// FetchConnections fetches every configured stop in order and groups the wanted connections by line.
func FetchConnections(ctx context.Context, fetcher StationboardFetcher, stops config.Stops, loc *time.Location) (LineGroups, error) {
	return GroupByLine(func(yield func(Connection, error) bool) {
		for _, stop := range stops {
			board, err := fetcher.FetchStationboard(ctx, stop.Name)
			if err != nil {
				yield(Connection{}, err)
				return
			}
			for conn, err := range ExtractConnections(stop, board, loc) {
				if !yield(conn, err) || err != nil {
					return
				}
			}
		}
	})
}
