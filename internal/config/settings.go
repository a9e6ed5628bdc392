package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nowesr1/snapstash/internal/download"
	"github.com/nowesr1/snapstash/internal/http"
	"github.com/nowesr1/snapstash/internal/logger"
	"github.com/nowesr1/snapstash/internal/playlist"
	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath          string `json:"downloads_path" yaml:"downloads_path"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`
	HTTPTimeoutSeconds     int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	UserAgent              string `json:"user_agent" yaml:"user_agent"`

	// File naming
	UniqueFilenames bool `json:"unique_filenames" yaml:"unique_filenames"`

	// Thumbnail settings
	SaveThumbnails   bool `json:"save_thumbnails" yaml:"save_thumbnails"`
	ThumbnailMaxSize int  `json:"thumbnail_max_size" yaml:"thumbnail_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist" yaml:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"` // debug, info, warn, error
	PrettyLog bool   `json:"pretty_log" yaml:"pretty_log"`
	LogFile   string `json:"log_file" yaml:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:          filepath.Join(homeDir, "Pictures", "Snapchat Memories"),
		MaxConcurrentDownloads: download.DefaultConcurrency,
		HTTPTimeoutSeconds:     60,
		UserAgent:              "snapstash",

		UniqueFilenames: false,

		SaveThumbnails:   false,
		ThumbnailMaxSize: 320,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		LogLevel:  "info",
		PrettyLog: true,
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "snapstash", "settings.json")
}

// Load reads settings from a JSON or YAML file, chosen by extension.
//
// A missing file yields the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate clamps numeric options into range and rejects values that
// cannot be used.
func (s *Settings) Validate() error {
	if s.MaxConcurrentDownloads < 1 {
		s.MaxConcurrentDownloads = 1
	}
	if s.HTTPTimeoutSeconds < 1 {
		s.HTTPTimeoutSeconds = 60
	}
	if s.ThumbnailMaxSize < 16 {
		s.ThumbnailMaxSize = 16
	}

	var errs []error
	if _, err := playlist.ParseFormat(s.PlaylistFormat); err != nil {
		errs = append(errs, err)
	}
	if !logger.ValidLevel(s.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log level %q", s.LogLevel))
	}
	return errors.Join(errs...)
}

// HTTPTimeout returns the per-request timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// ToFetcherConfig converts settings to a download.FetcherConfig.
func (s *Settings) ToFetcherConfig() download.FetcherConfig {
	return download.FetcherConfig{
		UniqueFilenames:  s.UniqueFilenames,
		SaveThumbnails:   s.SaveThumbnails,
		ThumbnailMaxSize: s.ThumbnailMaxSize,
	}
}

// PlaylistFormatValue converts the playlist format name. Unknown names
// fall back to M3U.
func (s *Settings) PlaylistFormatValue() playlist.Format {
	f, _ := playlist.ParseFormat(s.PlaylistFormat)
	return f
}

// NewLogger builds the logger described by the settings. A LogFile sends
// output to that file instead of stderr.
func (s *Settings) NewLogger() logger.Logger {
	if s.LogFile != "" {
		return logger.NewFile(s.LogLevel, s.LogFile)
	}
	return logger.New(s.LogLevel, s.PrettyLog)
}

// NewManager wires an HTTP client, a Fetcher and a Manager from the
// settings.
func (s *Settings) NewManager(log logger.Logger) *download.Manager {
	client := http.NewClient(s.HTTPTimeout(), s.UserAgent)
	fetcher := download.NewFetcher(client, s.ToFetcherConfig(), log)
	return download.NewManager(fetcher, s.MaxConcurrentDownloads, log)
}

// WritePlaylists writes the monthly playlists of a batch into destDir when
// CreatePlaylist is on. It returns the written paths.
func (s *Settings) WritePlaylists(destDir string, report *download.Report) ([]string, error) {
	if !s.CreatePlaylist || report == nil {
		return nil, nil
	}
	creator := playlist.NewCreator(s.PlaylistFormatValue(), s.M3UExtended)
	return creator.WriteAll(destDir, playlist.Monthly(report.Outcomes))
}
