package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muswitch/internal/formatter"
	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Collect fetches every playlist of an owner with its tracks, then prints, writes or saves the result.
func (r *Runner) Collect(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	output := cmd.String("output")
	save := cmd.Bool("save")

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	svc, err := r.service(cmd.String("provider"))
	if err != nil {
		return err
	}

	kind, _ := providerKind(cmd.String("provider"))
	collector := r.collector()

	r.logger.Info("collecting playlists", "provider", svc.Name(), "owner", owner, "workers", collector.Workers())

	progress, stop := r.progress()
	results, err := collector.Collect(ctx, svc, owner, progress)
	stop()
	if err != nil {
		return err
	}

	if save {
		store, err := r.snapshots()
		if err != nil {
			return err
		}

		snapshot := &models.Snapshot{Provider: kind, OwnerID: owner, Playlists: results}
		if err := store.Create(snapshot); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		r.logger.Info("snapshot saved", "id", snapshot.ID, "playlists", len(results), "tracks", snapshot.TrackCount())
	}

	if output != "" {
		if err := formatter.WriteExport(results, format, output); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d playlists to %s\n", len(results), output)
	}

	data, err := formatter.Export(results, format, r.palette)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Check reads a playlist from one provider and searches for each of its tracks on another.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	source, err := r.service(cmd.String("from"))
	if err != nil {
		return err
	}
	dest, err := r.service(cmd.String("to"))
	if err != nil {
		return err
	}

	r.logger.Info("checking playlist", "from", source.Name(), "to", dest.Name(), "playlist", playlistID)

	tracks, err := source.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return err
	}

	progress, stop := r.progress()
	result, err := r.collector().Check(ctx, dest, tracks, progress)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(checkJSON(playlistID, result), true)
	}
	return r.writeBytes(formatter.ExportCheckToText(result, r.palette))
}

type checkMatchJSON struct {
	Track models.Track `json:"track"`
	Found bool         `json:"found"`
	Error string       `json:"error,omitempty"`
}

type checkResultJSON struct {
	PlaylistID      string           `json:"playlist_id"`
	Provider        string           `json:"provider"`
	Matches         []checkMatchJSON `json:"matches"`
	FoundCount      int              `json:"found"`
	MissingCount    int              `json:"missing"`
	FailedCount     int              `json:"failed"`
	MatchPercentage float64          `json:"match_percentage"`
}

func checkJSON(playlistID string, result *tasks.CheckResult) checkResultJSON {
	out := checkResultJSON{
		PlaylistID:      playlistID,
		Provider:        result.Provider,
		Matches:         make([]checkMatchJSON, 0, len(result.Matches)),
		FoundCount:      result.FoundCount,
		MissingCount:    result.MissingCount,
		FailedCount:     result.FailedCount,
		MatchPercentage: result.MatchPercentage,
	}
	for _, m := range result.Matches {
		match := checkMatchJSON{Track: m.Track, Found: m.Found}
		if m.Error != nil {
			match.Error = m.Error.Error()
		}
		out.Matches = append(out.Matches, match)
	}
	return out
}
