package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nowesr1/snapstash/internal/download"
	"github.com/nowesr1/snapstash/internal/model"
	"github.com/nowesr1/snapstash/internal/playlist"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultSettings(), got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "settings.json", `{"max_concurrent_downloads": 8, "save_thumbnails": true, "playlist_format": "pls"}`},
		{"yaml", "settings.yaml", "max_concurrent_downloads: 8\nsave_thumbnails: true\nplaylist_format: pls\n"},
		{"yml", "settings.yml", "max_concurrent_downloads: 8\nsave_thumbnails: true\nplaylist_format: pls\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			want := DefaultSettings()
			want.MaxConcurrentDownloads = 8
			want.SaveThumbnails = true
			want.PlaylistFormat = "pls"
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			want := DefaultSettings()
			want.DownloadsPath = "/Volumes/Backup/Memories"
			want.UniqueFilenames = true
			want.LogFile = "/tmp/snapstash.log"

			if err := want.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSave_YAMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := DefaultSettings().Save(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "max_concurrent_downloads: 5") {
		t.Errorf("YAML output missing snake_case key:\n%s", data)
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.MaxConcurrentDownloads = 0
	s.HTTPTimeoutSeconds = -1
	s.ThumbnailMaxSize = 2

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if s.MaxConcurrentDownloads != 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want 1", s.MaxConcurrentDownloads)
	}
	if s.HTTPTimeout() != 60*time.Second {
		t.Errorf("HTTPTimeout() = %v, want 60s", s.HTTPTimeout())
	}
	if s.ThumbnailMaxSize != 16 {
		t.Errorf("ThumbnailMaxSize = %d, want 16", s.ThumbnailMaxSize)
	}

	s.PlaylistFormat = "xspf"
	s.LogLevel = "loud"
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error for bad playlist format and log level")
	}
	for _, want := range []string{"xspf", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.UniqueFilenames = true
	s.SaveThumbnails = true
	s.ThumbnailMaxSize = 200
	s.PlaylistFormat = "wpl"

	want := download.FetcherConfig{UniqueFilenames: true, SaveThumbnails: true, ThumbnailMaxSize: 200}
	if diff := cmp.Diff(want, s.ToFetcherConfig()); diff != "" {
		t.Errorf("ToFetcherConfig mismatch (-want +got):\n%s", diff)
	}
	if got := s.PlaylistFormatValue(); got != playlist.FormatWPL {
		t.Errorf("PlaylistFormatValue() = %v, want %v", got, playlist.FormatWPL)
	}

	s.PlaylistFormat = "bogus"
	if got := s.PlaylistFormatValue(); got != playlist.FormatM3U {
		t.Errorf("PlaylistFormatValue() = %v, want M3U fallback", got)
	}
}

func TestWritePlaylists(t *testing.T) {
	dir := t.TempDir()
	rec := &model.Record{ID: "a", TimestampText: "2024-03-05 10:15:30 UTC", PrimaryLink: "https://example.com/a"}
	report := &download.Report{
		Total: 1, Done: 1, Saved: 1,
		Outcomes: []download.Outcome{{Record: rec, Status: download.StatusSaved, Path: filepath.Join(dir, rec.TargetFilename())}},
	}

	s := DefaultSettings()
	paths, err := s.WritePlaylists(dir, report)
	if err != nil || paths != nil {
		t.Fatalf("WritePlaylists with playlists off = %v, %v", paths, err)
	}

	s.CreatePlaylist = true
	paths, err = s.WritePlaylists(dir, report)
	if err != nil {
		t.Fatalf("WritePlaylists failed: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "2024-March.m3u")}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestNewManager(t *testing.T) {
	s := DefaultSettings()
	s.MaxConcurrentDownloads = 7
	if got := s.NewManager(nil).Concurrency(); got != 7 {
		t.Errorf("Concurrency() = %d, want 7", got)
	}
}
