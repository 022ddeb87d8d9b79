package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muswitch/internal/repositories"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded config template to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	if err := r.writePlain("✓ Wrote %s\n", path); err != nil {
		return err
	}
	return r.writePlainln("Set client_id and client_secret for each provider, or export SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET and YOUTUBE_CLIENT_ID / YOUTUBE_CLIENT_SECRET.")
}

// SetupDatabase initializes the snapshot database and runs migrations, or reverts the newest one with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("rollback") {
		r.logger.Info("rolling back migration", "path", r.config.Database.Path)

		version, err := repositories.Rollback(r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to roll back database: %w", err)
		}
		return r.writePlain("✓ Rolled back migration %d\n", version)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := repositories.Open(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}
