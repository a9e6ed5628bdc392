// Package library holds the imported memories and the user's selection.
//
// State is a value. Every operation returns a new State and leaves the
// receiver untouched, so a UI can keep the previous state around and a
// failed import never clobbers what was loaded before:
//
//	st := library.New()
//	st, err := st.ImportFile("memories_history.json")
//	if err != nil {
//	    fmt.Println(st.Status) // "Import failed: ..."
//	}
//	st = st.SelectMonth("2024", "March")
//	report, err := manager.DownloadAll(ctx, st.Selected(), dest, nil)
//	st = st.ApplyReport(report)
package library

import (
	"fmt"
	"os"

	"github.com/nowesr1/snapstash/internal/download"
	"github.com/nowesr1/snapstash/internal/model"
	"github.com/nowesr1/snapstash/internal/snapchat"
)

// State is the imported library, its grouping, the selected record IDs and
// a status line describing the last terminal event.
type State struct {
	Records   []*model.Record
	Years     []model.YearGroup
	Selection map[string]struct{}
	Status    string
}

// New returns an empty library.
func New() State {
	return State{Status: "No export loaded"}
}

// Import parses an export and replaces the library with its records.
//
// On a parse error the previous records and selection are kept and only
// Status changes. The error is a *snapchat.ParseError.
func (s State) Import(data []byte) (State, error) {
	records, err := snapchat.NewParser().ParseExport(data)
	if err != nil {
		return s.withStatus(fmt.Sprintf("Import failed: %v", err)), err
	}
	return fromRecords(records), nil
}

// ImportFile reads and imports the export at path.
func (s State) ImportFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return s.withStatus(fmt.Sprintf("Import failed: %v", err)), err
	}
	return s.Import(data)
}

func fromRecords(records []*model.Record) State {
	return State{
		Records:   records,
		Years:     model.Group(records),
		Selection: map[string]struct{}{},
		Status:    fmt.Sprintf("Imported %d memories", len(records)),
	}
}

func (s State) withStatus(status string) State {
	s.Status = status
	return s
}

// withSelection returns a copy of s whose selection is edited by fn.
func (s State) withSelection(fn func(sel map[string]struct{})) State {
	sel := make(map[string]struct{}, len(s.Selection))
	for id := range s.Selection {
		sel[id] = struct{}{}
	}
	fn(sel)
	s.Selection = sel
	return s
}

// IsSelected reports whether the record ID is selected.
func (s State) IsSelected(id string) bool {
	_, ok := s.Selection[id]
	return ok
}

// Select adds IDs to the selection.
func (s State) Select(ids ...string) State {
	return s.withSelection(func(sel map[string]struct{}) {
		for _, id := range ids {
			sel[id] = struct{}{}
		}
	})
}

// Toggle flips the selection of one record ID.
func (s State) Toggle(id string) State {
	return s.withSelection(func(sel map[string]struct{}) {
		if _, ok := sel[id]; ok {
			delete(sel, id)
		} else {
			sel[id] = struct{}{}
		}
	})
}

// SelectMonth selects every record of a month. If all of them are already
// selected they are deselected instead.
func (s State) SelectMonth(year, month string) State {
	m, ok := s.month(year, month)
	if !ok {
		return s
	}
	return s.toggleAll(m.Records)
}

// SelectYear selects every record of a year, or deselects them when the
// whole year is already selected.
func (s State) SelectYear(year string) State {
	for _, y := range s.Years {
		if y.Year == year {
			var records []*model.Record
			for _, m := range y.Months {
				records = append(records, m.Records...)
			}
			return s.toggleAll(records)
		}
	}
	return s
}

// SelectAll selects every record.
func (s State) SelectAll() State {
	return s.withSelection(func(sel map[string]struct{}) {
		for _, r := range s.Records {
			sel[r.ID] = struct{}{}
		}
	})
}

// Clear empties the selection.
func (s State) Clear() State {
	s.Selection = map[string]struct{}{}
	return s
}

func (s State) toggleAll(records []*model.Record) State {
	all := true
	for _, r := range records {
		if !s.IsSelected(r.ID) {
			all = false
			break
		}
	}
	return s.withSelection(func(sel map[string]struct{}) {
		for _, r := range records {
			if all {
				delete(sel, r.ID)
			} else {
				sel[r.ID] = struct{}{}
			}
		}
	})
}

func (s State) month(year, month string) (model.MonthGroup, bool) {
	for _, y := range s.Years {
		if y.Year != year {
			continue
		}
		for _, m := range y.Months {
			if m.Month == month {
				return m, true
			}
		}
	}
	return model.MonthGroup{}, false
}

// MonthSelection returns how many records of a month are selected and how
// many it has.
func (s State) MonthSelection(year, month string) (selected, total int) {
	m, ok := s.month(year, month)
	if !ok {
		return 0, 0
	}
	for _, r := range m.Records {
		if s.IsSelected(r.ID) {
			selected++
		}
	}
	return selected, len(m.Records)
}

// Selected returns the selected records in import order.
func (s State) Selected() []*model.Record {
	var out []*model.Record
	for _, r := range s.Records {
		if s.IsSelected(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyReport records the result of a download batch in Status.
func (s State) ApplyReport(r *download.Report) State {
	if r == nil {
		return s
	}
	return s.withStatus(r.Summary())
}

// ApplyError records a batch-level failure in Status.
func (s State) ApplyError(err error) State {
	return s.withStatus(fmt.Sprintf("Download failed: %v", err))
}
