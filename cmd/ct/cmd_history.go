package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daviddao/countdown/pkg/duration"
	"github.com/daviddao/countdown/pkg/model"
)

// historyEntry is a run with its events, for --events output.
type historyEntry struct {
	model.Run
	Events []model.Event `json:"events,omitempty"`
}

func (a *app) cmdHistory(args []string) int {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := flags.Int("limit", 20, "max runs to show")
	status := flags.String("status", "", "only runs with this status (running, paused, expired, reset)")
	events := flags.Bool("events", false, "include the events of each run")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	st := model.RunStatus(*status)
	if st != "" && !st.Valid() {
		fmt.Fprintf(os.Stderr, "ct: history: unknown status %q\n", *status)
		return 1
	}

	runs, err := a.store.ListRuns(*limit, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ct: history: %v\n", err)
		return 1
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		e := historyEntry{Run: r}
		if *events {
			e.Events, err = a.store.ListEvents(r.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ct: history: events for %s: %v\n", r.ID, err)
				return 1
			}
		}
		entries = append(entries, e)
	}

	if *jsonOut {
		printJSON(entries)
		return 0
	}

	if len(entries) == 0 {
		fmt.Println("no countdowns recorded")
		return 0
	}
	for _, e := range entries {
		fmt.Printf("%-8s %s  left %s  %s",
			e.Status,
			duration.Split(e.TotalSeconds),
			duration.Split(e.Remaining),
			e.StartedAt.Local().Format(time.DateTime))
		if e.Preset != "" {
			fmt.Printf("  [%s]", e.Preset)
		}
		fmt.Printf("  %s\n", e.ID)
		for _, ev := range e.Events {
			fmt.Printf("    %-7s %s  %s\n", ev.Kind, duration.Split(ev.Remaining), ev.CreatedAt.Local().Format(time.TimeOnly))
		}
	}
	fmt.Printf("(%d of %d runs)\n", len(entries), a.store.CountRuns())
	return 0
}
