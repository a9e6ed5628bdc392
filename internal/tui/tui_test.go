package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nowesr1/snapstash/internal/config"
	"github.com/nowesr1/snapstash/internal/download"
	"github.com/nowesr1/snapstash/internal/library"
)

const export = `{"Saved Media": [
  {"ID": "a", "Date": "2024-03-05 10:15:30 UTC", "Media Type": "Video", "Download Link": "https://example.com/a"},
  {"ID": "b", "Date": "2024-03-01 08:00:00 UTC", "Media Type": "Image", "Download Link": "https://example.com/b"},
  {"ID": "c", "Date": "2023-12-24 18:00:00 UTC", "Media Type": "Image", "Download Link": "https://example.com/c"}
]}`

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func browsing(t *testing.T) Model {
	t.Helper()
	lib, err := library.New().Import([]byte(export))
	if err != nil {
		t.Fatal(err)
	}
	return update(t, NewModel(config.DefaultSettings(), nil), ImportDoneMsg{Lib: lib})
}

func TestModel_ImportBuildsRows(t *testing.T) {
	m := browsing(t)

	if m.state != StateBrowse {
		t.Fatalf("state = %v, want StateBrowse", m.state)
	}
	want := []row{
		{year: "2024", count: 2},
		{year: "2024", month: "March", count: 2},
		{year: "2023", count: 1},
		{year: "2023", month: "December", count: 1},
	}
	if len(m.rows) != len(want) {
		t.Fatalf("rows = %v, want %v", m.rows, want)
	}
	for i := range want {
		if m.rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, m.rows[i], want[i])
		}
	}
}

func TestModel_ImportErrorStaysOnInput(t *testing.T) {
	m := NewModel(nil, nil)
	lib, err := library.New().Import([]byte("{"))
	m = update(t, m, ImportDoneMsg{Lib: lib, Err: err})

	if m.state != StateInput {
		t.Errorf("state = %v, want StateInput", m.state)
	}
	if !strings.Contains(m.View(), "Import failed") {
		t.Errorf("view does not show the import error:\n%s", m.View())
	}
}

func TestModel_Selection(t *testing.T) {
	m := browsing(t)

	// Cursor on the 2024 header selects the whole year.
	m = update(t, m, runes(" "))
	if got := len(m.lib.Selected()); got != 2 {
		t.Errorf("selected after year toggle = %d, want 2", got)
	}

	// Move to December 2023 and toggle the month.
	for range 3 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = update(t, m, runes(" "))
	if !m.lib.IsSelected("c") {
		t.Error("December record not selected")
	}

	m = update(t, m, runes("a"))
	if got := len(m.lib.Selected()); got != 0 {
		t.Errorf("selected after clearing = %d, want 0", got)
	}
	m = update(t, m, runes("a"))
	if got := len(m.lib.Selected()); got != 3 {
		t.Errorf("selected after select all = %d, want 3", got)
	}
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m := browsing(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	for range 10 {
		m = update(t, m, runes("j"))
	}
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.rows)-1)
	}
}

func TestModel_Options(t *testing.T) {
	m := browsing(t)
	m = update(t, m, runes("t"))
	m = update(t, m, runes("p"))
	if !m.settings.SaveThumbnails || !m.settings.CreatePlaylist {
		t.Errorf("options = thumbnails %v, playlists %v; want both on", m.settings.SaveThumbnails, m.settings.CreatePlaylist)
	}
}

func TestModel_ProgressAndCompletion(t *testing.T) {
	m := browsing(t)
	m.state = StateDownloading
	m.total = 3

	m = update(t, m, ProgressMsg{Done: 2, Total: 3})
	if m.done != 2 {
		t.Errorf("done = %d, want 2", m.done)
	}
	if !strings.Contains(m.View(), "Files: 2/3") {
		t.Errorf("view missing counter:\n%s", m.View())
	}

	report := &download.Report{Total: 3, Done: 3, Saved: 2, Skipped: 1, Bytes: 1500}
	m = update(t, m, DownloadDoneMsg{Report: report})
	if m.state != StateComplete {
		t.Fatalf("state = %v, want StateComplete", m.state)
	}
	if m.lib.Status != report.Summary() {
		t.Errorf("Status = %q, want %q", m.lib.Status, report.Summary())
	}
	if !strings.Contains(m.View(), "Saved: 2") {
		t.Errorf("view missing totals:\n%s", m.View())
	}

	m = update(t, m, runes("r"))
	if m.state != StateInput || len(m.lib.Records) != 3 {
		t.Errorf("after reset: state %v, records %d", m.state, len(m.lib.Records))
	}
}

func TestModel_DownloadError(t *testing.T) {
	m := browsing(t)
	m.state = StateDownloading

	m = update(t, m, DownloadDoneMsg{Err: download.ErrPermission})
	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "Cannot write to the destination folder") {
		t.Errorf("view missing permission hint:\n%s", m.View())
	}
}

func TestExpandHome(t *testing.T) {
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(abs) = %q", got)
	}
	if got := expandHome("~/x"); strings.HasPrefix(got, "~") {
		t.Errorf("expandHome(~/x) = %q, want expanded", got)
	}
}
