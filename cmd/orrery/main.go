// orrery - a software rendered solar system for the terminal and desktop.
//
// Controls:
//
//	Arrows      - Move the ship left/right/up/down
//	, / .       - Move the ship forward/back
//	W/S/A/D     - Orbit the camera
//	+/-         - Zoom in/out
//	I/J/K/L     - Pan the camera target
//	O           - Toggle orbit rings
//	R           - Reset the camera
//	Q/Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/orrery/internal/config"
)

// version is set at build time.
var version = "dev"

// app holds the flags shared by every command.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	flags      config.Flags
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "orrery",
		Short: "Software rendered solar system",
		Long: "orrery renders a small solar system with a hand-written rasterizer and\n" +
			"procedural shaders. Without a subcommand it runs in the terminal.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTerminal(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "JSON scene config (reloaded on change)")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to this file (terminal mode discards logs otherwise)")
	pf.IntVar(&a.flags.FPS, "fps", 0, "target frames per second")
	pf.Int64Var(&a.flags.Seed, "seed", 0, "star field and noise seed")
	pf.IntVar(&a.flags.Workers, "workers", 0, "render goroutines (default: CPU count)")
	pf.IntVar(&a.flags.StarCount, "stars", 0, "number of stars (negative disables)")
	pf.BoolVar(&a.flags.Orbits, "orbits", false, "draw orbit rings")
	pf.StringVar(&a.flags.Model, "model", "", "ship model (.obj, .stl, .glb)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Render in the terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runTerminal(cmd.Context())
			},
		},
		a.newWindowCmd(),
		a.newSnapshotCmd(),
	)
	return root
}

// logger creates the command logger. When quiet is set and no log file was
// given, logs are discarded because stderr is the drawing surface.
func (a *app) logger(quiet bool) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case a.logFile != "":
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	case quiet:
		w = io.Discard
	}

	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "orrery",
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closer, nil
}

// loadConfig reads the config file, applies flags and defaults, and
// validates the result.
func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Resolve(a.flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// watchConfig reloads the config file into reloads until ctx is done. It
// does nothing without a config file.
func (a *app) watchConfig(ctx context.Context, logger *log.Logger, reloads chan<- config.Config) {
	if a.configPath == "" {
		return
	}
	go func() {
		err := config.Watch(ctx, a.configPath, func(cfg config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed", "err", err)
				return
			}
			select {
			case reloads <- cfg:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Error("config watcher stopped", "err", err)
		}
	}()
}
