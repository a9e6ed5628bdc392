package playlist

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nowesr1/snapstash/internal/download"
	ioutils "github.com/nowesr1/snapstash/internal/io"
	"github.com/nowesr1/snapstash/internal/model"
)

// Format represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp and VLC
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type Format int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines carrying a title.
	FormatM3U Format = iota

	// FormatPLS creates .pls files.
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParseFormat maps a settings value ("m3u", "pls", "wpl", "zpl") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", s)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// Entry is one file in a playlist.
type Entry struct {
	// File is relative to the playlist, which lives next to the media.
	File  string
	Title string
}

// Playlist is a named, ordered list of entries.
type Playlist struct {
	Name    string
	Entries []Entry
}

// Monthly builds one playlist per month from the outcomes of a batch.
//
// Only records present on disk (saved or skipped) are listed. Playlists are
// named "<Year>-<Month>", e.g. "2024-March", and follow the year/month
// order of the library. Entries within a month are oldest first.
func Monthly(outcomes []download.Outcome) []Playlist {
	files := make(map[*model.Record]string, len(outcomes))
	var records []*model.Record
	for _, out := range outcomes {
		if out.Status == download.StatusFailed || out.Record == nil {
			continue
		}
		if _, seen := files[out.Record]; seen {
			continue
		}
		files[out.Record] = filepath.Base(out.Path)
		records = append(records, out.Record)
	}

	var playlists []Playlist
	for _, year := range model.Group(records) {
		for _, month := range year.Months {
			members := slices.Clone(month.Records)
			slices.SortStableFunc(members, func(a, b *model.Record) int {
				return a.SortTime().Compare(b.SortTime())
			})

			p := Playlist{Name: year.Year + "-" + month.Month}
			for _, rec := range members {
				p.Entries = append(p.Entries, Entry{
					File:  files[rec],
					Title: fmt.Sprintf("%s %s", rec.Kind, rec.TimestampText),
				})
			}
			playlists = append(playlists, p)
		}
	}
	return playlists
}

// Creator generates playlist files in various formats.
//
// Example:
//
//	creator := NewCreator(FormatM3U, true)
//	content := creator.Create(p)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Video 2024-03-05 10:15:30 UTC
//	// 2024-03-05_10-15-30.mp4
type Creator struct {
	format   Format
	extended bool // For M3U: include EXTINF lines
}

// NewCreator creates a new Creator.
//
// extended only affects M3U output.
func NewCreator(format Format, extended bool) *Creator {
	return &Creator{
		format:   format,
		extended: extended,
	}
}

// Create renders a playlist.
func (c *Creator) Create(p Playlist) string {
	switch c.format {
	case FormatPLS:
		return c.createPLS(p)
	case FormatWPL:
		return c.createWPL(p)
	case FormatZPL:
		return c.createZPL(p)
	default:
		return c.createM3U(p)
	}
}

// WriteAll writes each playlist into dir as "<Name><ext>" and returns the
// written paths. It stops at the first error.
func (c *Creator) WriteAll(dir string, playlists []Playlist) ([]string, error) {
	var paths []string
	for _, p := range playlists {
		if len(p.Entries) == 0 {
			continue
		}
		path := filepath.Join(dir, p.Name+c.format.Extension())
		if err := ioutils.WriteFileAtomic(path, []byte(c.Create(p))); err != nil {
			return paths, fmt.Errorf("playlist %s: %w", p.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// createM3U generates an M3U playlist.
//
// Extended M3U has no duration for the entries, so EXTINF uses -1:
//
//	#EXTM3U
//	#EXTINF:-1,Image 2024-03-05 10:15:30 UTC
//	2024-03-05_10-15-30.jpg
func (c *Creator) createM3U(p Playlist) string {
	var sb strings.Builder

	if c.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range p.Entries {
		if c.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", e.Title)
		}
		sb.WriteString(e.File + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=2024-03-05_10-15-30.jpg
//	Title1=Image 2024-03-05 10:15:30 UTC
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (c *Creator) createPLS(p Playlist) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range p.Entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.File)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(p.Entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (c *Creator) createWPL(p Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(p.Name))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(e.File))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL is WPL with a generator and item count in the head and a
// title attribute on each entry.
func (c *Creator) createZPL(p Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(p.Name))
	sb.WriteString("    <meta name=\"Generator\" content=\"snapstash\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(p.Entries))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\" trackTitle=\"%s\"/>\n", escapeXML(e.File), escapeXML(e.Title))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
