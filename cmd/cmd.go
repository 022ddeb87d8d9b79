// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func providerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "provider",
		Aliases:  []string{"p"},
		Usage:    "Music provider (spotify or youtube)",
		Required: true,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides [log] level",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent provider calls for collect and check; overrides [collect] workers",
		},
		&cli.FloatFlag{
			Name:  "rate-limit",
			Usage: "Provider calls per second, 0 for unlimited; overrides [collect] rate_limit",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Snapshot database path; overrides [database] path",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus text-format metrics to this file on exit",
		},
	}
}

// playlistsCommand lists an owner's playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List a user's (Spotify) or channel's (YouTube) playlists",
		Flags: []cli.Flag{
			providerFlag(),
			&cli.StringFlag{
				Name:     "owner",
				Aliases:  []string{"o"},
				Usage:    "Spotify user ID or YouTube channel ID",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Playlists,
	}
}

// tracksCommand lists a playlist's tracks
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List the tracks of a playlist",
		Flags: []cli.Flag{
			providerFlag(),
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json or csv",
				Value:   "text",
			},
		},
		Action: r.Tracks,
	}
}

// findCommand probes a provider for a track
func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Search a provider for a track and report whether anything was found",
		Flags: []cli.Flag{
			providerFlag(),
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Track title",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name (repeatable)",
			},
		},
		Action: r.Find,
	}
}

// collectCommand gathers every playlist of an owner with its tracks
func collectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Fetch all playlists of an owner with their tracks",
		Flags: []cli.Flag{
			providerFlag(),
			&cli.StringFlag{
				Name:     "owner",
				Aliases:  []string{"o"},
				Usage:    "Spotify user ID or YouTube channel ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json or csv",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Write the export to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Store the result as a snapshot",
			},
		},
		Action: r.Collect,
	}
}

// checkCommand probes a playlist's tracks on another provider
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check which tracks of a playlist can be found on another provider",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Usage:    "Provider the playlist lives on",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Provider to search",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID on the source provider",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Check,
	}
}

// snapshotsCommand manages stored collections
func snapshotsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "snapshots",
		Aliases: []string{"snap"},
		Usage:   "Stored collect results",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved snapshots, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only snapshots of this provider",
					},
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Only snapshots of this owner",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.SnapshotsList,
			},
			{
				Name:  "show",
				Usage: "Print a saved snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json or csv",
						Value:   "text",
					},
				},
				Action: r.SnapshotsShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.SnapshotsDelete,
			},
		},
	}
}

// apiCommand handles raw provider API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authenticated GET against a provider API, prints the raw response",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			providerFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output compact JSON",
			},
		},
		Action: r.APIGet,
	}
}

// authCommand reports token state
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Client-credentials token operations",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Fetch a token for each configured provider and show when it expires",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only this provider",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a config.toml template to the --config path",
				Action: r.ConfigInit,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the snapshot database and run migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Revert the most recent migration instead",
			},
		},
		Action: r.SetupDatabase,
	}
}
