package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/muswitch/internal/formatter"
	"github.com/desertthunder/muswitch/internal/models"
	"github.com/urfave/cli/v3"
)

// Playlists lists the playlists of a Spotify user or YouTube channel.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")

	svc, err := r.service(cmd.String("provider"))
	if err != nil {
		return err
	}

	r.logger.Info("listing playlists", "provider", svc.Name(), "owner", owner)

	playlists, err := svc.GetPlaylists(ctx, owner)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found for %s\n", owner)
	}
	return r.writeBytes(formatter.ExportPlaylistsToText(playlists, r.palette))
}

// Tracks prints a playlist's tracks.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	svc, err := r.service(cmd.String("provider"))
	if err != nil {
		return err
	}

	r.logger.Info("listing tracks", "provider", svc.Name(), "playlist", playlistID)

	tracks, err := svc.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return err
	}

	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(tracks, true)
	case formatter.FormatCSV:
		data, err := formatter.ExportToCSV([]models.PlaylistTracks{{Playlist: models.Playlist{ID: playlistID}, Tracks: tracks}})
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	default:
		return r.writeBytes(formatter.ExportTracksToText(tracks))
	}
}

// Find reports whether a provider search for a title and artists returned anything.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	artists := cmd.StringSlice("artist")

	svc, err := r.service(cmd.String("provider"))
	if err != nil {
		return err
	}

	r.logger.Info("searching", "provider", svc.Name(), "title", title, "artists", artists)

	found, err := svc.FindTrack(ctx, title, artists)
	if err != nil {
		return err
	}

	query := title
	if len(artists) > 0 {
		query = fmt.Sprintf("%s - %s", title, strings.Join(artists, ", "))
	}

	if found {
		return r.writePlain("%s %s on %s\n", r.palette.OK("✓ found"), query, svc.Name())
	}
	return r.writePlain("%s %s on %s\n", r.palette.Err("✗ not found"), query, svc.Name())
}
