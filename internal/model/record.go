package model

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the fixed layout of Record.TimestampText.
// The trailing "UTC" is a literal marker, not a zone token.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

const utcMarker = " UTC"

// MediaKind is the type of media a Record points at.
type MediaKind int

const (
	// KindImage is any media whose type is not "video".
	KindImage MediaKind = iota

	// KindVideo is media whose type equals "video", ignoring case.
	KindVideo
)

// ParseMediaKind maps an export type string to a MediaKind.
//
// Only a case-insensitive match on "video" yields KindVideo; every other
// value, including the empty string, is KindImage.
func ParseMediaKind(s string) MediaKind {
	if strings.EqualFold(s, "video") {
		return KindVideo
	}
	return KindImage
}

// String returns "Video" or "Image".
func (k MediaKind) String() string {
	if k == KindVideo {
		return "Video"
	}
	return "Image"
}

// Extension returns the file extension for the kind, including the dot.
func (k MediaKind) Extension() string {
	if k == KindVideo {
		return ".mp4"
	}
	return ".jpg"
}

// Record is one media entry of a memories export.
//
// Records are created once by the importer and never modified afterwards.
// Every derived value (kind, effective URL, grouping keys, file name) is
// computed on demand from the stored fields, so two Records with equal
// fields always derive equal values.
//
// Example:
//
//	r := &Record{
//	    ID:            "1",
//	    TimestampText: "2024-03-05 10:15:30 UTC",
//	    Kind:          KindVideo,
//	    PrimaryLink:   "https://example.com/a",
//	}
//	r.TargetFilename() // "2024-03-05_10-15-30.mp4"
//	r.YearKey()        // "2024"
//	r.MonthKey()       // "March"
type Record struct {
	// ID identifies the record in selection sets. Generated at import time
	// when the export does not carry one; not guaranteed unique.
	ID string

	// TimestampText is the original date-time string, e.g. "2024-03-05 10:15:30 UTC".
	TimestampText string

	// Kind is derived from the export's media type string.
	Kind MediaKind

	// PrimaryLink is the always-present download link.
	PrimaryLink string

	// SecondaryLink is the optional direct media URL. When it parses as a
	// URL it wins over PrimaryLink.
	SecondaryLink string
}

// Timestamp parses TimestampText as UTC.
//
// On malformed input it returns the zero time (January 1, year 1) and false.
// The zero time is the far-past sentinel used for grouping and sorting.
func (r *Record) Timestamp() (time.Time, bool) {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(r.TimestampText), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortTime returns the parsed timestamp, or the far-past sentinel.
func (r *Record) SortTime() time.Time {
	t, _ := r.Timestamp()
	return t
}

// YearKey returns the 4-digit year used as the period key.
func (r *Record) YearKey() string {
	return r.SortTime().Format("2006")
}

// MonthKey returns the English month name used as the sub-period key.
func (r *Record) MonthKey() string {
	return r.SortTime().Month().String()
}

// EffectiveURL resolves the URL to fetch the media from.
//
// SecondaryLink is preferred when it parses as an absolute URL, then
// PrimaryLink. The boolean is false when neither resolves.
func (r *Record) EffectiveURL() (*url.URL, bool) {
	if u, ok := parseLink(r.SecondaryLink); ok {
		return u, true
	}
	return parseLink(r.PrimaryLink)
}

// TargetFilename returns the file name the media is saved under.
//
// The UTC marker is dropped, ':' becomes '-', ' ' becomes '_' and the
// extension follows Kind:
//
//	"2024-03-05 10:15:30 UTC" + KindVideo -> "2024-03-05_10-15-30.mp4"
//	"2024-03-05 10:15:30 UTC" + KindImage -> "2024-03-05_10-15-30.jpg"
//
// The result depends only on TimestampText and Kind, so records sharing
// both map to the same file.
func (r *Record) TargetFilename() string {
	return r.baseName() + r.Kind.Extension()
}

// UniqueFilename is TargetFilename with a short ID suffix, for exports
// that contain several records with the same timestamp and kind.
func (r *Record) UniqueFilename() string {
	id := sanitizeFileName(r.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return r.TargetFilename()
	}
	return r.baseName() + "_" + id + r.Kind.Extension()
}

func (r *Record) baseName() string {
	name := strings.TrimSpace(r.TimestampText)
	name = strings.TrimSuffix(name, utcMarker)
	name = strings.ReplaceAll(name, ":", "-")
	name = strings.ReplaceAll(name, " ", "_")
	name = sanitizeFileName(name)
	if name == "" {
		return "unknown"
	}
	return name
}

// parseLink accepts only absolute URLs with a scheme and host.
func parseLink(s string) (*url.URL, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	repeatedSpace    = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
