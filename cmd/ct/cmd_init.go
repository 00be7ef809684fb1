package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daviddao/countdown/pkg/config"
	"github.com/daviddao/countdown/pkg/store"
)

// cmdInit writes the default config (unless one exists) and creates the
// history database.
func cmdInit(args []string) int {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	force := flags.Bool("force", false, "overwrite an existing config file")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	return initAt(envOr(config.EnvConfig, config.DefaultPath()), *force)
}

func initAt(cfgPath string, force bool) int {
	cfg := config.DefaultConfig()
	_, err := os.Stat(cfgPath)
	switch {
	case err == nil && !force:
		loaded, err := config.Load(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ct: init: %v (use --force to overwrite)\n", err)
			return 1
		}
		cfg = loaded
		fmt.Printf("config exists: %s\n", cfgPath)
	case err == nil || errors.Is(err, os.ErrNotExist):
		if err := cfg.Save(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "ct: init: %v\n", err)
			return 1
		}
		fmt.Printf("wrote config: %s\n", cfgPath)
	default:
		fmt.Fprintf(os.Stderr, "ct: init: %v\n", err)
		return 1
	}
	cfg.ApplyEnv(os.Getenv)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "ct: init: cannot create %s: %v\n", filepath.Dir(cfg.DBPath), err)
		return 1
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ct: init: database error: %v\n", err)
		return 1
	}
	n := s.CountRuns()
	s.Close()

	fmt.Printf("history db: %s\n", cfg.DBPath)
	if n > 0 {
		fmt.Printf("  %d recorded run(s)\n", n)
	}
	fmt.Println()
	fmt.Println("next steps:")
	fmt.Println("  ct presets        # list presets")
	fmt.Println("  ct run 5m         # count down five minutes")
	fmt.Println("  ct tui            # interactive countdown")
	return 0
}
