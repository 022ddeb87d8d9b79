// package tasks implements multi-call operations over a single [services.Service].
//
// The core abstraction is Collector, which gathers an owner's playlists with their tracks and probes
// tracks on another provider. Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/services"
	"github.com/desertthunder/muswitch/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 16
)

// CollectorOpts configures concurrency and pacing.
type CollectorOpts struct {
	Workers   int     // concurrent provider calls (default: 4, max: 16)
	RateLimit float64 // provider calls per second; 0 disables pacing
	Logger    *log.Logger
}

// Collector fans provider calls out over a bounded worker pool.
//
// One limiter is shared by every operation run through the same Collector.
type Collector struct {
	workers int
	limiter *rate.Limiter
	logger  *log.Logger
}

// TrackMatchResult represents the result of probing a single track on the destination provider.
type TrackMatchResult struct {
	Track models.Track
	Found bool
	Error error // set when the probe itself failed
}

// CheckResult contains per-track probe results, in source order.
type CheckResult struct {
	Provider        string
	Matches         []TrackMatchResult
	FoundCount      int
	MissingCount    int
	FailedCount     int
	MatchPercentage float64
}

// NewCollector creates a Collector, clamping opts.Workers into range.
func NewCollector(opts CollectorOpts) *Collector {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Collector{
		workers: opts.Workers,
		limiter: rate.NewLimiter(limit, 1),
		logger:  opts.Logger,
	}
}

// Workers returns the effective worker count.
func (c *Collector) Workers() int {
	return c.workers
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Collect lists ownerID's playlists and fetches the tracks of each one concurrently.
//
// The result preserves the provider's playlist order. The first failure cancels outstanding
// fetches and is returned alone; no partial result is returned.
func (c *Collector) Collect(ctx context.Context, svc services.Service, ownerID string, progress chan<- ProgressUpdate) ([]models.PlaylistTracks, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchPlaylistsUpdate(svc.Name(), ownerID))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	playlists, err := svc.GetPlaylists(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	total := len(playlists)
	sendProgress(progress, foundPlaylistsUpdate(total, ownerID))
	c.logger.Debug("collecting tracks", "provider", svc.Name(), "playlists", total, "workers", c.workers)

	results := make([]models.PlaylistTracks, total)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, pl := range playlists {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}

			tracks, err := svc.GetPlaylistTracks(gctx, pl.ID)
			if err != nil {
				sendProgress(progress, playlistFailedUpdate(int(done.Add(1)), total, pl, err))
				return fmt.Errorf("playlist %s: %w", pl.ID, err)
			}

			results[i] = models.PlaylistTracks{Playlist: pl, Tracks: tracks}
			sendProgress(progress, playlistTracksUpdate(int(done.Add(1)), total, pl, len(tracks)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Check probes every track on dest with FindTrack.
//
// A failed probe is recorded on its match and the run continues, except configuration and
// token-acquisition failures which abort since every later probe would fail the same way.
func (c *Collector) Check(ctx context.Context, dest services.Service, tracks []models.Track, progress chan<- ProgressUpdate) (*CheckResult, error) {
	if dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	total := len(tracks)
	matches := make([]TrackMatchResult, total)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	sendProgress(progress, searchTracksUpdate(0, total, dest.Name(), nil))

	for i, tr := range tracks {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}

			found, err := dest.FindTrack(gctx, tr.Name, tr.Artists)
			if err != nil && isFatal(err) {
				return err
			}

			matches[i] = TrackMatchResult{Track: tr, Found: found, Error: err}
			sendProgress(progress, searchTracksUpdate(int(done.Add(1)), total, dest.Name(), &tr))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CheckResult{Provider: dest.Name(), Matches: matches}
	for _, m := range matches {
		switch {
		case m.Error != nil:
			result.FailedCount++
		case m.Found:
			result.FoundCount++
		default:
			result.MissingCount++
		}
	}
	if total > 0 {
		result.MatchPercentage = float64(result.FoundCount) / float64(total) * 100
	}

	return result, nil
}

func isFatal(err error) bool {
	return shared.IsConfigError(err) || errors.Is(err, shared.ErrAuthFetchFailed)
}
