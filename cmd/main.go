package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/muswitch/internal/formatter"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Logger:   logger,
		Palette:  formatter.DefaultPalette,
		Registry: prometheus.NewRegistry(),
	})

	err := newApp(runner).Run(context.Background(), os.Args)
	if closeErr := runner.Close(); closeErr != nil {
		logger.Warn("failed to close database", "error", closeErr)
	}

	if err != nil {
		if code := exitCode(err); code == exitConfig {
			logger.Error("configuration error", "error", err)
			os.Exit(code)
		}
		logger.Fatalf("application error: %v", err)
	}
}

const (
	exitFailure = 1
	exitConfig  = 2
)

// exitCode maps a command error onto the process status. Configuration problems get their own code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case shared.IsConfigError(err):
		return exitConfig
	default:
		return exitFailure
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "muswitch",
		Usage:    "Read playlists from Spotify and YouTube with client-credentials auth",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}

// Before loads the config file, applies environment and flag overrides, and sets the log level.
//
// A missing file at the default path falls back to the embedded defaults; an explicit --config must exist.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return ctx, err
		}
	} else if cmd.IsSet("config") && !isConfigInit(cmd) {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	config.ApplyEnv(nil)

	if cmd.IsSet("workers") {
		config.Collect.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate-limit") {
		config.Collect.RateLimit = cmd.Float("rate-limit")
	}
	if cmd.IsSet("db") {
		config.Database.Path = cmd.String("db")
	}

	level := config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	r.config = config
	r.configPath = path
	return ctx, nil
}

// After writes collected metrics when --metrics-file is set.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	r.logger.Debug("metrics written", "path", path)
	return nil
}

func isConfigInit(cmd *cli.Command) bool {
	args := cmd.Args().Slice()
	return len(args) >= 2 && args[0] == "config" && args[1] == "init"
}
