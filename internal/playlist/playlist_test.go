package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nowesr1/snapstash/internal/download"
	"github.com/nowesr1/snapstash/internal/model"
)

func outcome(ts string, kind model.MediaKind, status download.Status) download.Outcome {
	rec := &model.Record{ID: ts, TimestampText: ts, Kind: kind, PrimaryLink: "https://example.com"}
	return download.Outcome{
		Record: rec,
		Status: status,
		Path:   filepath.Join("/dest", rec.TargetFilename()),
	}
}

func createTestPlaylist() Playlist {
	return Playlist{
		Name: "2024-March",
		Entries: []Entry{
			{File: "2024-03-01_08-00-00.jpg", Title: "Image 2024-03-01 08:00:00 UTC"},
			{File: "2024-03-05_10-15-30.mp4", Title: "Video 2024-03-05 10:15:30 UTC"},
		},
	}
}

func TestMonthly(t *testing.T) {
	outcomes := []download.Outcome{
		outcome("2024-03-05 10:15:30 UTC", model.KindVideo, download.StatusSaved),
		outcome("2023-12-24 18:00:00 UTC", model.KindImage, download.StatusSkipped),
		outcome("2024-03-01 08:00:00 UTC", model.KindImage, download.StatusSaved),
		outcome("2024-02-14 20:00:00 UTC", model.KindImage, download.StatusFailed),
	}

	want := []Playlist{
		createTestPlaylist(),
		{
			Name:    "2023-December",
			Entries: []Entry{{File: "2023-12-24_18-00-00.jpg", Title: "Image 2023-12-24 18:00:00 UTC"}},
		},
	}

	if diff := cmp.Diff(want, Monthly(outcomes)); diff != "" {
		t.Errorf("Monthly() mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthly_Empty(t *testing.T) {
	failed := []download.Outcome{outcome("2024-03-05 10:15:30 UTC", model.KindImage, download.StatusFailed)}
	if got := Monthly(failed); len(got) != 0 {
		t.Errorf("Monthly() = %v, want none", got)
	}
}

func TestCreator_M3U(t *testing.T) {
	content := NewCreator(FormatM3U, false).Create(createTestPlaylist())

	want := "2024-03-01_08-00-00.jpg\n2024-03-05_10-15-30.mp4\n"
	if content != want {
		t.Errorf("M3U = %q, want %q", content, want)
	}
}

func TestCreator_M3UExtended(t *testing.T) {
	content := NewCreator(FormatM3U, true).Create(createTestPlaylist())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Video 2024-03-05 10:15:30 UTC\n2024-03-05_10-15-30.mp4\n") {
		t.Errorf("Extended M3U missing EXTINF entry:\n%s", content)
	}
}

func TestCreator_PLS(t *testing.T) {
	content := NewCreator(FormatPLS, false).Create(createTestPlaylist())

	for _, want := range []string{"[playlist]\n", "File1=2024-03-01_08-00-00.jpg\n", "Title2=Video 2024-03-05 10:15:30 UTC\n", "NumberOfEntries=2\n", "Version=2\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS missing %q:\n%s", want, content)
		}
	}
}

func TestCreator_WPLAndZPL(t *testing.T) {
	p := createTestPlaylist()
	p.Name = "Tom & Jerry <3"

	wpl := NewCreator(FormatWPL, false).Create(p)
	if !strings.HasPrefix(wpl, "<?wpl") {
		t.Error("WPL should start with <?wpl")
	}
	if !strings.Contains(wpl, "<title>Tom &amp; Jerry &lt;3</title>") {
		t.Errorf("WPL title not escaped:\n%s", wpl)
	}

	zpl := NewCreator(FormatZPL, false).Create(p)
	if !strings.HasPrefix(zpl, "<?zpl") {
		t.Error("ZPL should start with <?zpl")
	}
	if !strings.Contains(zpl, `<meta name="ItemCount" content="2"/>`) {
		t.Errorf("ZPL missing item count:\n%s", zpl)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantExt string
		wantErr bool
	}{
		{"m3u", FormatM3U, ".m3u", false},
		{"", FormatM3U, ".m3u", false},
		{"PLS", FormatPLS, ".pls", false},
		{"wpl", FormatWPL, ".wpl", false},
		{" zpl ", FormatZPL, ".zpl", false},
		{"xspf", FormatM3U, ".m3u", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if ext := got.Extension(); ext != tt.wantExt {
			t.Errorf("%v.Extension() = %q, want %q", got, ext, tt.wantExt)
		}
	}
}

func TestCreator_WriteAll(t *testing.T) {
	dir := t.TempDir()
	playlists := []Playlist{createTestPlaylist(), {Name: "2024-February"}}

	paths, err := NewCreator(FormatPLS, false).WriteAll(dir, playlists)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	want := []string{filepath.Join(dir, "2024-March.pls")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[playlist]") {
		t.Errorf("unexpected content:\n%s", data)
	}
}
