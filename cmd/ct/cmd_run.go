package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/daviddao/countdown/pkg/duration"
	"github.com/daviddao/countdown/pkg/engine"
	"github.com/daviddao/countdown/pkg/model"
)

// durationFlags are the duration sources shared by run and tui.
type durationFlags struct {
	hours, minutes, seconds *string
	preset                  *string
}

func addDurationFlags(flags *flag.FlagSet) durationFlags {
	return durationFlags{
		hours:   flags.String("hours", "", "hours field"),
		minutes: flags.String("minutes", "", "minutes field"),
		seconds: flags.String("seconds", "", "seconds field"),
		preset:  flags.String("preset", "", "preset name from the config file"),
	}
}

// resolve picks the duration from a positional argument, a preset, or the
// individual field flags, in that order. Field flags go through the same
// coercion as interactive input, so "abc" or "-3" count as 0.
func (f durationFlags) resolve(a *app, positional string) (duration.Duration, string, error) {
	if positional != "" && *f.preset != "" {
		return duration.Duration{}, "", errors.New("give a duration or --preset, not both")
	}
	if positional != "" {
		d, err := duration.Parse(positional)
		return d, "", err
	}
	if *f.preset != "" {
		d, err := a.cfg.Preset(*f.preset)
		return d, *f.preset, err
	}
	var d duration.Duration
	d.SetField(duration.Hours, *f.hours)
	d.SetField(duration.Minutes, *f.minutes)
	d.SetField(duration.Seconds, *f.seconds)
	return d, "", nil
}

// runLine is one line of `ct run --json` output.
type runLine struct {
	Transition engine.Transition `json:"transition"`
	Snapshot   engine.Snapshot   `json:"snapshot"`
	RunID      string            `json:"run_id,omitempty"`
}

func (a *app) cmdRun(args []string) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	df := addDurationFlags(flags)
	jsonOut := flags.Bool("json", false, "JSON output (one object per transition)")
	noHistory := flags.Bool("no-history", false, "do not record this countdown")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	d, preset, err := df.resolve(a, flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ct: run: %v\n", err)
		return 2
	}
	if d.IsZero() {
		fmt.Fprintln(os.Stderr, "ct: run: duration is zero")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := a.recorder(!*noHistory, preset, a.log)
	expired := make(chan struct{}, 1)
	opts := []engine.LoopOption{}
	if rec != nil {
		opts = append(opts, engine.WithObserver(rec.Observe))
	}
	opts = append(opts, engine.WithObserver(func(tr engine.Transition, s engine.Snapshot) {
		if *jsonOut {
			if tr.Changed {
				line := runLine{Transition: tr, Snapshot: s}
				if rec != nil {
					line.RunID = rec.Current()
				}
				b, _ := json.Marshal(line)
				fmt.Println(string(b))
			}
		} else {
			printTransition(tr, s)
		}
		if tr.To == model.StateExpired && tr.Changed {
			select {
			case expired <- struct{}{}:
			default:
			}
		}
	}))
	loop := engine.NewLoop(a.newEngine(a.log), opts...)

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readCommands(a.stdin, lines, done)

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	g.Go(func() error {
		if err := loop.Run(loopCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stopLoop()
		return a.controlRun(gctx, loop, d, lines, expired)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "ct: run: %v\n", err)
		return 1
	}
	return 0
}

// controlRun starts the countdown and applies stdin commands until it
// expires, the user quits, or ctx is cancelled.
func (a *app) controlRun(ctx context.Context, loop *engine.Loop, d duration.Duration, lines <-chan string, expired <-chan struct{}) error {
	start := func() error {
		if _, err := loop.SetDuration(ctx, d); err != nil {
			return err
		}
		_, err := loop.Start(ctx)
		return err
	}
	if err := start(); err != nil {
		return ignoreCancel(err)
	}

	for {
		var err error
		select {
		case <-ctx.Done():
			return nil
		case <-expired:
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			switch line {
			case "p", "pause", "resume":
				_, err = loop.PauseToggle(ctx)
			case "r", "reset":
				_, err = loop.Reset(ctx)
			case "s", "start":
				err = start()
			case "q", "quit", "exit":
				return nil
			case "":
			default:
				fmt.Fprintf(os.Stderr, "ct: run: unknown input %q (p, r, s or q)\n", line)
			}
		}
		if err != nil {
			return ignoreCancel(err)
		}
	}
}

// readCommands forwards trimmed stdin lines until EOF or done. The channel
// is closed on EOF.
func readCommands(r io.Reader, out chan<- string, done <-chan struct{}) {
	if r == nil {
		return
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case out <- strings.ToLower(strings.TrimSpace(sc.Text())):
		case <-done:
			return
		}
	}
	close(out)
}

// printTransition renders one line per visible change.
func printTransition(tr engine.Transition, s engine.Snapshot) {
	if !tr.Changed {
		return
	}
	if tr.From == tr.To {
		if tr.Command == model.CmdTick {
			fmt.Println(s.Text)
		}
		return
	}
	fmt.Printf("%s  %s\n", s.Text, transitionLabel(tr))
}

func transitionLabel(tr engine.Transition) string {
	switch {
	case tr.To == model.StateRunning && tr.From == model.StatePaused:
		return "resumed"
	case tr.To == model.StateRunning:
		return "started"
	case tr.To == model.StatePaused:
		return "paused"
	case tr.To == model.StateExpired:
		return "expired"
	default:
		return "reset"
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, engine.ErrStopped) {
		return nil
	}
	return err
}
