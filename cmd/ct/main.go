// Command ct is a countdown timer for the terminal: a line-mode runner, a
// Bubble Tea interface, and a SQLite history of past countdowns.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("ct", version)
		return
	case "init":
		// init must work before a valid config exists.
		os.Exit(cmdInit(os.Args[2:]))
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	case "run":
		os.Exit(a.cmdRun(os.Args[2:]))
	case "tui", "ui":
		os.Exit(a.cmdTUI(os.Args[2:]))
	case "history", "hist":
		os.Exit(a.cmdHistory(os.Args[2:]))
	case "presets":
		os.Exit(a.cmdPresets(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "ct: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'ct --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ct - countdown timer

Usage:
  ct <command> [flags]

Commands:
  run [flags] [DURATION]    Count down in line mode
  tui [--preset NAME]       Interactive countdown (hours/minutes/seconds inputs)
  history [--limit N]       List past countdowns
  presets                   List presets from the config file
  init [--force]            Write the default config and create the history db

DURATION is 90, 1:30, 1:02:03 or 1h2m3s. Instead of DURATION, run accepts
--hours/--minutes/--seconds or --preset NAME.

While run is counting, type a line on stdin:
  p   pause or resume
  r   reset
  s   start again from the original duration (after a reset)
  q   quit

Aliases:
  ui = tui, hist = history

Environment:
  COUNTDOWN_CONFIG   config file (default: ~/.countdown/config.yaml)
  COUNTDOWN_DB       history database (overrides db_path)
  COUNTDOWN_DEBUG    log every tick and transition (true/false)
  COUNTDOWN_HISTORY  record countdowns in the history (true/false)

run, history and presets support --json for machine-readable output.

Exit codes:
  0  countdown expired, or quit
  1  error
  2  invalid or zero duration
`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ct: "+format+"\n", args...)
	os.Exit(1)
}
