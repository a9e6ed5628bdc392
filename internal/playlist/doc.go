// Package playlist writes per-month playlists next to downloaded memories.
//
// A playlist lists the files of one month that are present after a batch,
// oldest first, so a media player can step through the month:
//
//	creator := playlist.NewCreator(playlist.FormatM3U, true)
//	paths, err := creator.WriteAll(destDir, playlist.Monthly(report.Outcomes))
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package playlist
