package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/muswitch/internal/services"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthStatus fetches a client-credentials token per provider and prints its expiry.
//
// Bearer values are never printed. A provider whose credentials are missing or rejected is reported
// and the command moves on; the command fails only when no provider produced a token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	kinds := services.Kinds()
	if p := cmd.String("provider"); p != "" {
		kind, err := providerKind(p)
		if err != nil {
			return err
		}
		kinds = []string{kind}
	}

	var lastErr error
	ok := 0

	for _, kind := range kinds {
		r.logger.Info("checking token", "provider", kind)

		line, err := r.tokenStatus(ctx, kind)
		if err != nil {
			lastErr = err
			line = fmt.Sprintf("%s %s: %v", r.palette.Err("✗"), kind, err)
		} else {
			ok++
		}

		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}

	if ok == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

// tokenStatus fetches kind's token and describes its expiry.
func (r *Runner) tokenStatus(ctx context.Context, kind string) (string, error) {
	if err := r.credentialsError(kind); err != nil {
		return "", err
	}

	if _, err := r.source(kind).Token(ctx); err != nil {
		return "", err
	}

	tok, found := r.tokens.Peek(kind)
	if !found {
		return "", fmt.Errorf("%w: no token cached for %s", shared.ErrAuthFetchFailed, kind)
	}

	return fmt.Sprintf("%s %s: token valid for %s (expires %s)", r.palette.OK("✓"), kind,
		time.Until(tok.ExpiresAt()).Round(time.Second), tok.ExpiresAt().Local().Format(time.DateTime)), nil
}
