package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"stationboard/pkg/transit"

	ics "github.com/arran4/golang-ical"
)

// eventLength is how long a departure occupies in a calendar
const eventLength = time.Minute

// GenerateICS writes one event per connection, starting at its delayed departure time
func GenerateICS(conns []transit.Connection, w io.Writer, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//stationboard//departures//EN")

	for _, c := range conns {
		start := c.Departure()

		event := cal.AddEvent(eventUID(c))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(eventLength))
		event.SetSummary(fmt.Sprintf("%s → %s", c.Line, c.Terminal))
		event.SetLocation(c.StopName)

		description := fmt.Sprintf("Scheduled: %s", c.Scheduled.Format("15:04"))
		if c.DelayMinutes > 0 {
			description += fmt.Sprintf("\nDelay: +%d min", c.DelayMinutes)
		}
		event.SetDescription(description)
	}

	return cal.SerializeTo(w)
}

// eventUID is stable across exports so calendar clients update instead of duplicating
func eventUID(c transit.Connection) string {
	stop := strings.Map(func(r rune) rune {
		if r == ' ' || r == ',' || r == '/' {
			return '-'
		}
		return r
	}, c.StopName)
	return fmt.Sprintf("%s-%s-%s@stationboard", c.Scheduled.UTC().Format("20060102T150405Z"), c.Line, stop)
}
