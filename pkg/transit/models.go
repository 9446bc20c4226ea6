package transit

import "time"

// Stationboard represents the object returned by /stationboard.json
type Stationboard struct {
	Stop StopInfo `json:"stop"`
	// Connections is nil when the API answered without a connections field, which means an error.
	Connections *[]RawConnection `json:"connections"`
	Messages    []string         `json:"messages"`
}

// StopInfo is the stop as the API names it, which can differ from the query string
type StopInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawConnection is a single departure record as delivered by the API
type RawConnection struct {
	Time     string   `json:"time"` // "2006-01-02 15:04:05", local time
	Line     string   `json:"line"` // filter key, e.g. "72"
	Category string   `json:"*G"`   // e.g. "B" or "T"
	Number   string   `json:"*L"`   // e.g. "72"
	Terminal Terminal `json:"terminal"`
	DepDelay *string  `json:"dep_delay"` // e.g. "+2"; absent when on time or unknown
}

// Terminal is the end-of-line destination of a connection
type Terminal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Connection is a departure on a wanted line in a wanted direction
type Connection struct {
	Line         string // rendered label, e.g. "B72"
	StopName     string
	Terminal     string
	Scheduled    time.Time
	DelayMinutes int
}

// Departure returns the scheduled time plus the announced delay.
func (c Connection) Departure() time.Time {
	return c.Scheduled.Add(time.Duration(c.DelayMinutes) * time.Minute)
}
