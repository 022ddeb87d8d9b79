package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muswitch/internal/services"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to a provider API.
//
// Non-2xx responses are printed like any other and then reported as an API error.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	kind, err := providerKind(cmd.String("provider"))
	if err != nil {
		return err
	}

	api, err := services.NewAPIService(kind, r.serviceOptions(kind))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "provider", kind, "path", path)

	resp, err := api.Get(ctx, path)
	if err != nil {
		return err
	}

	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, !useJSON); err != nil {
			return err
		}
	} else {
		if err := r.writeBytes(append(resp.Body, '\n')); err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
