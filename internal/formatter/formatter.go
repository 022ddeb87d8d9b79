// package formatter renders playlists, tracks and snapshots as plain text, JSON or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/desertthunder/muswitch/internal/tasks"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// csvArtistSep joins artists inside a single CSV cell.
const csvArtistSep = "; "

// ParseFormat accepts text (or txt), json and csv, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, json or csv)", shared.ErrInvalidArgument, name)
	}
}

// TrackLine renders one numbered track as "n. name - artist, artist".
func TrackLine(n int, track models.Track) string {
	if len(track.Artists) == 0 {
		return fmt.Sprintf("%d. %s", n, track.Name)
	}
	return fmt.Sprintf("%d. %s - %s", n, track.Name, track.ArtistLine())
}

// ExportTracksToText renders a numbered track list
func ExportTracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer
	for i, track := range tracks {
		buf.WriteString(TrackLine(i+1, track) + "\n")
	}
	return buf.Bytes()
}

// ExportPlaylistsToText renders one "id  name" line per playlist
func ExportPlaylistsToText(playlists []models.Playlist, p *Palette) []byte {
	var buf bytes.Buffer
	for _, pl := range playlists {
		name := pl.Name
		if name == "" {
			name = p.Help("(untitled)")
		}
		fmt.Fprintf(&buf, "%s  %s\n", pl.ID, name)
	}
	return buf.Bytes()
}

// ExportToText renders collected playlists, each under a styled header
func ExportToText(results []models.PlaylistTracks, p *Palette) []byte {
	var buf bytes.Buffer

	for i, res := range results {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(p.Title(fmt.Sprintf("Playlist: %s (%s)", res.Playlist.Name, res.Playlist.ID)) + "\n")
		buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(res.Tracks)))
		buf.Write(ExportTracksToText(res.Tracks))
	}

	return buf.Bytes()
}

// ExportToJSON renders any result as indented JSON
func ExportToJSON(v any) ([]byte, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts collected playlists to CSV with columns: Playlist ID, Playlist, Position, Title, Artists
func ExportToCSV(results []models.PlaylistTracks) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist ID", "Playlist", "Position", "Title", "Artists"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range results {
		for i, track := range res.Tracks {
			record := []string{
				res.Playlist.ID,
				res.Playlist.Name,
				strconv.Itoa(i + 1),
				track.Name,
				strings.Join(track.Artists, csvArtistSep),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// Export renders collected playlists in format f.
func Export(results []models.PlaylistTracks, f Format, p *Palette) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(results)
	case FormatCSV:
		return ExportToCSV(results)
	case FormatText, "":
		return ExportToText(results, p), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// ExportCheckToText renders per-track probe results followed by a summary line
func ExportCheckToText(result *tasks.CheckResult, p *Palette) []byte {
	var buf bytes.Buffer

	for i, m := range result.Matches {
		var mark string
		switch {
		case m.Error != nil:
			mark = p.Err("✗ error: " + m.Error.Error())
		case m.Found:
			mark = p.OK("✓ found")
		default:
			mark = p.Err("✗ missing")
		}
		fmt.Fprintf(&buf, "%s  %s\n", TrackLine(i+1, m.Track), mark)
	}

	fmt.Fprintf(&buf, "\n%s: %d found, %d missing, %d failed (%.1f%%)\n",
		result.Provider, result.FoundCount, result.MissingCount, result.FailedCount, result.MatchPercentage)

	return buf.Bytes()
}

// ExportSnapshotsToText renders a snapshot listing, newest first as given
func ExportSnapshotsToText(snapshots []models.Snapshot, p *Palette) []byte {
	var buf bytes.Buffer
	if len(snapshots) == 0 {
		buf.WriteString(p.Help("No snapshots saved.") + "\n")
		return buf.Bytes()
	}

	for _, s := range snapshots {
		fmt.Fprintf(&buf, "%s  %-8s %-20s %s  %d playlists, %d tracks\n",
			s.ID, s.Provider, s.OwnerID, s.CreatedAt.Local().Format(time.DateTime), len(s.Playlists), s.TrackCount())
	}
	return buf.Bytes()
}

// WriteExport renders results in format f and writes them to path.
func WriteExport(results []models.PlaylistTracks, f Format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := Export(results, f, PlainPalette())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s export: %w", f, err)
	}
	return nil
}
