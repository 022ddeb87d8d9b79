package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muswitch/internal/formatter"
	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/urfave/cli/v3"
)

// SnapshotsList prints saved snapshots, newest first.
func (r *Runner) SnapshotsList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{}
	if p := cmd.String("provider"); p != "" {
		kind, err := providerKind(p)
		if err != nil {
			return err
		}
		criteria["provider"] = kind
	}
	if owner := cmd.String("owner"); owner != "" {
		criteria["owner_id"] = owner
	}

	store, err := r.snapshots()
	if err != nil {
		return err
	}

	snapshots, err := store.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshots, true)
	}

	values := make([]models.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		values = append(values, *s)
	}
	return r.writeBytes(formatter.ExportSnapshotsToText(values, r.palette))
}

// SnapshotsShow prints one snapshot's playlists in the requested format.
func (r *Runner) SnapshotsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot ID", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.snapshots()
	if err != nil {
		return err
	}

	snapshot, err := store.Get(id)
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(snapshot, true)
	}

	if format == formatter.FormatText {
		r.writePlain("%s %s/%s, %s\n\n", r.palette.Help("snapshot"), snapshot.Provider, snapshot.OwnerID,
			snapshot.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	data, err := formatter.Export(snapshot.Playlists, format, r.palette)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// SnapshotsDelete removes one snapshot.
func (r *Runner) SnapshotsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot ID", shared.ErrMissingArgument)
	}

	store, err := r.snapshots()
	if err != nil {
		return err
	}

	if err := store.Delete(id); err != nil {
		return err
	}

	r.logger.Info("snapshot deleted", "id", id)
	return r.writePlain("✓ Deleted snapshot %s\n", id)
}
