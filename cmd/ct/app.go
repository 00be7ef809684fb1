package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/daviddao/countdown/pkg/clock"
	"github.com/daviddao/countdown/pkg/config"
	"github.com/daviddao/countdown/pkg/engine"
	"github.com/daviddao/countdown/pkg/store"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg     *config.Config
	cfgPath string
	store   store.StoreInterface
	log     *log.Logger
	clock   clock.Clock
	stdin   io.Reader

	// interval overrides the tick period; zero means one second.
	interval time.Duration
}

// newApp loads the config and opens the history database, creating its
// directory if needed.
func newApp() (*app, error) {
	cfgPath := envOr(config.EnvConfig, config.DefaultPath())
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", filepath.Dir(cfg.DBPath), err)
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", cfg.DBPath, err)
	}
	return &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   s,
		log:     log.New(os.Stderr, "ct: ", log.Ltime),
		clock:   clock.Real{},
		stdin:   os.Stdin,
	}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// newEngine builds an engine with the app's clock, cadence and logging.
// Transitions and ticks are logged only in debug mode.
func (a *app) newEngine(logger *log.Logger) *engine.Engine {
	opts := []engine.Option{engine.WithInterval(a.interval)}
	if a.cfg.Debug {
		opts = append(opts, engine.WithLogger(logger), engine.WithDebug(true))
	}
	return engine.New(a.clock, opts...)
}

// recorder returns a history recorder, or nil when history is off.
func (a *app) recorder(enabled bool, preset string, logger *log.Logger) *store.Recorder {
	if !enabled || !a.cfg.History || a.store == nil {
		return nil
	}
	r := store.NewRecorder(a.store, a.clock, logger)
	r.SetPreset(preset)
	return r
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
