// Package tasks runs multi-call provider operations with bounded concurrency and real-time progress reporting.
//
// # Core Operations
//
//  1. [Collector.Collect] : an owner's playlists with their tracks
//     - Lists the owner's playlists
//     - Fetches every playlist's tracks concurrently
//     - Returns results in playlist order, or the first failure
//
//  2. [Collector.Check] : probe a track list on another provider
//     - Calls FindTrack for each track
//     - Reports found, missing and failed counts with a match percentage
//
// # Concurrency
//
// Work runs on an errgroup limited to [CollectorOpts.Workers] goroutines. Every provider call first
// waits on a shared token-bucket limiter, so a Collector never exceeds [CollectorOpts.RateLimit]
// calls per second regardless of worker count.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking, so a slow or absent reader drops updates.
package tasks
