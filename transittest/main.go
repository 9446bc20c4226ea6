// Command transittest prints the raw stationboard of a stop, unfiltered.
// Useful for finding the exact stop and terminal names to put into the config.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"stationboard/pkg/transit"

	"github.com/rodaine/table"
)

func main() {
	stop := "Zürich, Brunaustrasse"
	if len(os.Args) > 1 {
		stop = strings.Join(os.Args[1:], " ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Fetching live stationboard for %q...\n", stop)

	board, err := transit.NewClient().FetchStationboard(ctx, stop)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("\n--- 🚋 %s (id %s) ---\n", board.Stop.Name, board.Stop.ID)

	tbl := table.New("Time", "Category", "Line", "Terminal", "Delay")
	for _, c := range *board.Connections {
		delay := "-"
		if c.DepDelay != nil {
			delay = *c.DepDelay
		}
		tbl.AddRow(c.Time, c.Category, c.Number, c.Terminal.Name, delay)
	}
	tbl.Print()
}
