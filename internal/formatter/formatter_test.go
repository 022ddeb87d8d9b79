package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/desertthunder/muswitch/internal/tasks"
)

func sampleResults() []models.PlaylistTracks {
	return []models.PlaylistTracks{
		{
			Playlist: models.Playlist{ID: "abc123", Name: "Road Trip"},
			Tracks: []models.Track{
				{Name: "Under Pressure", Artists: []string{"Queen", "David Bowie"}},
				{Name: "Field Recording", Artists: []string{}},
			},
		},
		{
			Playlist: models.Playlist{ID: "def456", Name: "Focus, Vol. 1"},
			Tracks: []models.Track{
				{Name: "Weightless", Artists: []string{"Marconi Union"}},
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("TrackLine", func(t *testing.T) {
		got := TrackLine(1, models.Track{Name: "Stay", Artists: []string{"The Kid LAROI", "Justin Bieber"}})
		if got != "1. Stay - The Kid LAROI, Justin Bieber" {
			t.Errorf("unexpected line %q", got)
		}

		if got := TrackLine(2, models.Track{Name: "Intro"}); got != "2. Intro" {
			t.Errorf("unexpected line without artists %q", got)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		output := string(ExportToText(sampleResults(), PlainPalette()))

		for _, want := range []string{
			"Playlist: Road Trip (abc123)\nTracks: 2\n\n",
			"1. Under Pressure - Queen, David Bowie\n",
			"2. Field Recording\n",
			"\nPlaylist: Focus, Vol. 1 (def456)\n",
			"1. Weightless - Marconi Union\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText with nil palette", func(t *testing.T) {
		output := string(ExportToText(sampleResults()[:1], nil))
		if !strings.HasPrefix(output, "Playlist: Road Trip (abc123)\n") {
			t.Errorf("expected plain header, got %q", output)
		}
	})

	t.Run("ExportPlaylistsToText", func(t *testing.T) {
		output := string(ExportPlaylistsToText([]models.Playlist{
			{ID: "abc123", Name: "Road Trip"},
			{ID: "def456", Name: ""},
		}, PlainPalette()))

		if output != "abc123  Road Trip\ndef456  (untitled)\n" {
			t.Errorf("unexpected output %q", output)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleResults())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV output does not parse: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d", len(records))
		}

		if strings.Join(records[0], ",") != "Playlist ID,Playlist,Position,Title,Artists" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][4] != "Queen; David Bowie" {
			t.Errorf("unexpected artists cell %q", records[1][4])
		}
		if records[2][2] != "2" || records[2][4] != "" {
			t.Errorf("unexpected row %v", records[2])
		}
		if records[3][1] != "Focus, Vol. 1" || records[3][2] != "1" {
			t.Errorf("comma in playlist name not preserved: %v", records[3])
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleResults())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.PlaylistTracks
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].Tracks[0].Artists[1] != "David Bowie" {
			t.Errorf("unexpected decoded value %+v", decoded)
		}
		if !strings.Contains(string(data), `"artists": []`) {
			t.Errorf("empty artist list should encode as [], got:\n%s", data)
		}
	})

	t.Run("Export dispatch", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatJSON, FormatCSV} {
			if _, err := Export(sampleResults(), f, nil); err != nil {
				t.Errorf("Export(%s) failed: %v", f, err)
			}
		}
		if _, err := Export(sampleResults(), Format("xml"), nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TXT", FormatText, false},
		{"json", FormatJSON, false},
		{" CSV ", FormatCSV, false},
		{"markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExportCheckToText(t *testing.T) {
	result := &tasks.CheckResult{
		Provider: "YouTube",
		Matches: []tasks.TrackMatchResult{
			{Track: models.Track{Name: "Under Pressure", Artists: []string{"Queen"}}, Found: true},
			{Track: models.Track{Name: "Stay", Artists: []string{"The Kid LAROI"}}},
			{Track: models.Track{Name: "Weightless"}, Error: shared.ErrNetwork},
		},
		FoundCount:      1,
		MissingCount:    1,
		FailedCount:     1,
		MatchPercentage: 100.0 / 3,
	}

	output := string(ExportCheckToText(result, PlainPalette()))

	for _, want := range []string{
		"1. Under Pressure - Queen  ✓ found\n",
		"2. Stay - The Kid LAROI  ✗ missing\n",
		"3. Weightless  ✗ error: network error",
		"YouTube: 1 found, 1 missing, 1 failed (33.3%)\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q, got:\n%s", want, output)
		}
	}
}

func TestExportSnapshotsToText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := string(ExportSnapshotsToText(nil, PlainPalette())); got != "No snapshots saved.\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("lists counts", func(t *testing.T) {
		snapshots := []models.Snapshot{{
			ID:        "snap-1",
			Provider:  "spotify",
			OwnerID:   "road-tripper",
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Playlists: sampleResults(),
		}}

		output := string(ExportSnapshotsToText(snapshots, PlainPalette()))
		if !strings.HasPrefix(output, "snap-1  spotify  road-tripper") {
			t.Errorf("unexpected prefix %q", output)
		}
		if !strings.Contains(output, "2 playlists, 3 tracks") {
			t.Errorf("missing counts in %q", output)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "road_trip.csv")

		if err := WriteExport(sampleResults(), FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "Playlist ID,") {
			t.Errorf("unexpected file content %q", data)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if err := WriteExport(sampleResults(), FormatText, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if err := WriteExport(sampleResults(), FormatText, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestPalette(t *testing.T) {
	t.Run("plain passes text through", func(t *testing.T) {
		p := PlainPalette()
		for _, got := range []string{p.Title("x"), p.OK("x"), p.Err("x"), p.Help("x")} {
			if got != "x" {
				t.Errorf("expected unstyled text, got %q", got)
			}
		}
	})

	t.Run("styled keeps text", func(t *testing.T) {
		if got := DefaultPalette.Title("Road Trip"); !strings.Contains(got, "Road Trip") {
			t.Errorf("styled output lost text: %q", got)
		}
	})
}
