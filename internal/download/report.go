package download

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nowesr1/snapstash/internal/model"
)

var (
	// ErrInvalidURL means neither link of a record is an absolute URL.
	ErrInvalidURL = errors.New("invalid media URL")
	// ErrTransfer wraps network failures and non-200 responses.
	ErrTransfer = errors.New("transfer failed")
	// ErrWrite wraps failures to store a fetched file.
	ErrWrite = errors.New("write failed")
	// ErrPermission means the destination directory could not be acquired.
	// It fails the whole batch before any fetch starts.
	ErrPermission = errors.New("destination not writable")
)

// Status is the resolution of a single record.
type Status string

const (
	StatusSaved   Status = "Saved"
	StatusSkipped Status = "Skipped"
	StatusFailed  Status = "Failed"
)

// Outcome is what happened to one record.
type Outcome struct {
	Record *model.Record
	Status Status
	Path   string
	Bytes  int64
	Err    error
}

// Report aggregates the outcomes of a batch. Outcomes are in completion
// order, not input order.
type Report struct {
	Total     int
	Done      int
	Saved     int
	Skipped   int
	Failed    int
	Bytes     int64
	Cancelled bool
	Outcomes  []Outcome
}

func (r *Report) add(out Outcome) {
	r.Done++
	switch out.Status {
	case StatusSaved:
		r.Saved++
		r.Bytes += out.Bytes
	case StatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, out)
}

// Succeeded counts records that are present on disk after the batch.
func (r *Report) Succeeded() int {
	return r.Saved + r.Skipped
}

// Failures returns the failed outcomes in completion order.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, out := range r.Outcomes {
		if out.Status == StatusFailed {
			failed = append(failed, out)
		}
	}
	return failed
}

// Summary renders the report as a single line, e.g.
// "12 saved (4.2 MB), 3 skipped, 1 failed".
func (r *Report) Summary() string {
	if r.Total == 0 {
		return "nothing to download"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d saved (%s), %d skipped, %d failed",
		r.Saved, humanize.Bytes(uint64(r.Bytes)), r.Skipped, r.Failed)
	if r.Cancelled {
		fmt.Fprintf(&b, "; cancelled after %d of %d", r.Done, r.Total)
	}
	return b.String()
}
