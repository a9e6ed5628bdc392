// Package tui provides a Bubble Tea terminal user interface for snapstash.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/nowesr1/snapstash/internal/config"
	"github.com/nowesr1/snapstash/internal/download"
	ioutils "github.com/nowesr1/snapstash/internal/io"
	"github.com/nowesr1/snapstash/internal/library"
	"github.com/nowesr1/snapstash/internal/logger"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFC00")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	yearStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFC00"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateImporting
	StateBrowse
	StateDownloading
	StateComplete
	StateError
)

// row is one line of the browse list: a year header when month is empty.
type row struct {
	year  string
	month string
	count int
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	log      logger.Logger

	lib    library.State
	rows   []row
	cursor int
	offset int

	report *download.Report
	err    error
	notes  []string

	// Download context
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	// Download progress
	done  int
	total int

	width  int
	height int
}

const (
	inputExport = iota
	inputDest
)

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, log logger.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if log == nil {
		log = logger.NewNop()
	}

	export := textinput.New()
	export.Placeholder = "~/Downloads/mydata/json/memories_history.json"
	export.Focus()
	export.CharLimit = 1024
	export.Width = 60

	dest := textinput.New()
	dest.Placeholder = "/Volumes/Backup/Memories"
	dest.SetValue(settings.DownloadsPath)
	dest.CharLimit = 1024
	dest.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFC00"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   []textinput.Model{export, dest},
		spinner:  sp,
		progress: prog,
		settings: settings,
		log:      log,
		lib:      library.New(),
		ctx:      ctx,
		cancel:   cancel,
		height:   24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ImportDoneMsg carries the library after an import attempt.
	ImportDoneMsg struct {
		Lib library.State
		Err error
	}

	// ProgressMsg is sent after each resolved record.
	ProgressMsg struct {
		Done  int
		Total int
	}

	// DownloadDoneMsg is sent when the batch returns.
	DownloadDoneMsg struct {
		Report *download.Report
		Notes  []string
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ImportDoneMsg:
		m.lib = msg.Lib
		if msg.Err != nil {
			m.state = StateInput
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.rows = buildRows(m.lib)
		m.cursor, m.offset = 0, 0
		m.state = StateBrowse

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		cmds = append(cmds, waitForEvent(m.events))

	case DownloadDoneMsg:
		m.events = nil
		m.notes = msg.Notes
		if msg.Err != nil {
			m.lib = m.lib.ApplyError(msg.Err)
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.report = msg.Report
		m.done = msg.Report.Done
		m.lib = m.lib.ApplyReport(msg.Report)
		m.state = StateComplete
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. It reports false when the key should
// fall through to the text inputs.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancel()
		return tea.Quit, true
	}

	switch m.state {
	case StateInput:
		switch key {
		case "esc":
			return tea.Quit, true
		case "tab", "shift+tab":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m.inputs[m.focus].Focus(), true
		case "enter":
			path := expandHome(strings.TrimSpace(m.inputs[inputExport].Value()))
			if path == "" {
				return nil, true
			}
			m.state = StateImporting
			return tea.Batch(importExport(m.lib, path), m.spinner.Tick), true
		}

	case StateBrowse:
		switch key {
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case " ":
			if len(m.rows) > 0 {
				r := m.rows[m.cursor]
				if r.month == "" {
					m.lib = m.lib.SelectYear(r.year)
				} else {
					m.lib = m.lib.SelectMonth(r.year, r.month)
				}
			}
		case "a":
			if len(m.lib.Selected()) == len(m.lib.Records) {
				m.lib = m.lib.Clear()
			} else {
				m.lib = m.lib.SelectAll()
			}
		case "t":
			m.settings.SaveThumbnails = !m.settings.SaveThumbnails
		case "p":
			m.settings.CreatePlaylist = !m.settings.CreatePlaylist
		case "u":
			m.settings.UniqueFilenames = !m.settings.UniqueFilenames
		case "enter":
			if len(m.lib.Selected()) > 0 {
				return m.startDownload(), true
			}
		case "esc":
			m.state = StateInput
			return m.inputs[m.focus].Focus(), true
		case "q":
			return tea.Quit, true
		}
		return nil, true

	case StateImporting:
		return nil, true

	case StateDownloading:
		if key == "esc" {
			m.cancel()
		}
		return nil, true

	case StateComplete, StateError:
		switch key {
		case "q", "esc":
			return tea.Quit, true
		case "r":
			m.reset()
			return m.inputs[m.focus].Focus(), true
		}
		return nil, true
	}

	return nil, false
}

// reset returns to the input screen and keeps the imported library so a
// second batch can resume where the first stopped.
func (m *Model) reset() {
	m.state = StateInput
	m.err = nil
	m.report = nil
	m.notes = nil
	m.done, m.total = 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))

	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m Model) listHeight() int {
	// Header, counters, options and help take about a dozen lines.
	return max(5, m.height-12)
}

func buildRows(lib library.State) []row {
	var rows []row
	for _, y := range lib.Years {
		rows = append(rows, row{year: y.Year, count: y.Count()})
		for _, mg := range y.Months {
			rows = append(rows, row{year: y.Year, month: mg.Month, count: mg.Count()})
		}
	}
	return rows
}

// importExport parses the export off the UI goroutine.
func importExport(lib library.State, path string) tea.Cmd {
	return func() tea.Msg {
		next, err := lib.ImportFile(path)
		return ImportDoneMsg{Lib: next, Err: err}
	}
}

// startDownload runs the selected batch in the background. Progress and
// the final result arrive as messages on m.events.
func (m *Model) startDownload() tea.Cmd {
	dest := expandHome(strings.TrimSpace(m.inputs[inputDest].Value()))
	if dest == "" {
		dest = m.settings.DownloadsPath
	}
	records := m.lib.Selected()
	settings := *m.settings
	log := m.log
	ctx := m.ctx
	events := make(chan tea.Msg, 64)

	m.events = events
	m.state = StateDownloading
	m.done, m.total = 0, len(records)

	go func() {
		defer close(events)

		if err := ioutils.EnsureDir(dest); err != nil {
			events <- DownloadDoneMsg{Err: fmt.Errorf("%w: %w", download.ErrPermission, err)}
			return
		}

		manager := settings.NewManager(log)
		report, err := manager.DownloadAll(ctx, records, dest, func(done, total int) {
			events <- ProgressMsg{Done: done, Total: total}
		})
		if err != nil {
			events <- DownloadDoneMsg{Err: err}
			return
		}

		var notes []string
		paths, err := settings.WritePlaylists(dest, report)
		if err != nil {
			log.Warn("playlists", logger.Error(err))
			notes = append(notes, fmt.Sprintf("Playlists: %v", err))
		} else if len(paths) > 0 {
			notes = append(notes, fmt.Sprintf("Wrote %d playlist(s)", len(paths)))
		}

		events <- DownloadDoneMsg{Report: report, Notes: notes}
	}()

	return tea.Batch(waitForEvent(events), m.spinner.Tick)
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// waitForEvent reads the next message of a running batch.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("👻 snapstash"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Back up your Snapchat memories"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateImporting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Reading export..."))
		b.WriteString("\n")
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Memories export (memories_history.json):"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputExport].View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Save to:"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputDest].View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.lib.Status))
		b.WriteString("\n")
	} else if len(m.lib.Records) > 0 {
		b.WriteString(dimStyle.Render(m.lib.Status))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	selected := len(m.lib.Selected())
	b.WriteString(successStyle.Render(fmt.Sprintf("%s memories", humanize.Comma(int64(len(m.lib.Records))))))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" • %s selected", humanize.Comma(int64(selected)))))
	b.WriteString("\n\n")

	end := min(len(m.rows), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("▸ ")
		}

		if r.month == "" {
			sel := 0
			for _, mr := range m.rows {
				if mr.year == r.year && mr.month != "" {
					s, _ := m.lib.MonthSelection(mr.year, mr.month)
					sel += s
				}
			}
			b.WriteString(pointer + checkbox(sel, r.count) + " " + yearStyle.Render(r.year))
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d", r.count)))
		} else {
			sel, total := m.lib.MonthSelection(r.year, r.month)
			b.WriteString(pointer + "  " + checkbox(sel, total) + " " + fmt.Sprintf("%-10s", r.month))
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d", total)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Save thumbnails (t)\n", option(m.settings.SaveThumbnails)))
	b.WriteString(fmt.Sprintf("  %s Create monthly playlists (p)\n", option(m.settings.CreatePlaylist)))
	b.WriteString(fmt.Sprintf("  %s Unique filenames (u)\n", option(m.settings.UniqueFilenames)))

	return b.String()
}

func checkbox(selected, total int) string {
	switch {
	case selected == 0:
		return "[ ]"
	case selected < total:
		return "[-]"
	default:
		return "[x]"
	}
}

func option(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	var percent float64
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.done, m.total)))
	b.WriteString("\n")

	if m.ctx.Err() != nil {
		b.WriteString(warningStyle.Render("Cancelling, waiting for transfers in flight..."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	r := m.report
	title := "✨ Download Complete!"
	if r.Cancelled {
		title = "Download Cancelled"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Saved: %d\n"+
			"Skipped: %d\n"+
			"Failed: %d\n"+
			"Size: %s",
		title,
		r.Saved,
		r.Skipped,
		r.Failed,
		humanize.Bytes(uint64(r.Bytes)),
	))
	b.WriteString(box)
	b.WriteString("\n")

	for _, note := range m.notes {
		b.WriteString(infoStyle.Render("› " + note))
		b.WriteString("\n")
	}

	failures := r.Failures()
	for i, out := range failures {
		if i == 5 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(failures)-5)))
			b.WriteString("\n")
			break
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", out.Record.TimestampText, out.Err)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, download.ErrPermission) {
			msg = "Cannot write to the destination folder: " + msg
		}
		b.WriteString(fmt.Sprintf("  %s", msg))
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: import • tab: switch field • esc: quit"
	case StateBrowse:
		return "↑/↓: move • space: toggle • a: all • enter: download • t/p/u: options • esc: back"
	case StateImporting:
		return ""
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, log logger.Logger) error {
	p := tea.NewProgram(NewModel(settings, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
