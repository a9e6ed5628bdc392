// Package config provides configuration management for snapstash.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to download, playlist and logger options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Pictures/Snapchat Memories
//	// 5 downloads in flight
//	// No thumbnails, no playlists
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Both use the same snake_case keys.
//
// # Saving Settings
//
//	settings.DownloadsPath = "/Volumes/Backup/Memories"
//	err := settings.Save("/path/to/settings.json")
package config
