package snapchat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nowesr1/snapstash/internal/model"
	"github.com/nowesr1/snapstash/internal/snapchat/dto"
)

// ErrNoSavedMedia is wrapped by a ParseError when the export has no
// "Saved Media" array.
var ErrNoSavedMedia = errors.New(`export has no "Saved Media" array`)

// ParseError reports an export that cannot be turned into records.
//
// Index is the position of the offending entry in "Saved Media", or -1 when
// the document as a whole is malformed.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse export: %v", e.Err)
	}
	return fmt.Sprintf("parse export: entry %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser turns memories export documents into records.
//
// Example usage:
//
//	parser := NewParser()
//
//	records, err := parser.ParseFile("memories_history.json")
//	var perr *ParseError
//	if errors.As(err, &perr) {
//	    log.Fatalf("bad export: %v", perr)
//	}
//
//	for _, r := range records {
//	    fmt.Println(r.TimestampText, r.Kind)
//	}
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseExport decodes an export document.
//
// Records are returned in array order. Entries without an ID get a
// generated one; duplicate IDs are kept as-is. A missing "Media Download Url"
// is not an error, but a missing "Date", "Media Type" or "Download Link"
// fails the whole document.
//
// Every failure is a *ParseError.
func (p *Parser) ParseExport(data []byte) ([]*model.Record, error) {
	var export dto.JSONExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	if export.SavedMedia == nil {
		return nil, &ParseError{Index: -1, Err: ErrNoSavedMedia}
	}

	entries := *export.SavedMedia
	records := make([]*model.Record, 0, len(entries))
	for i := range entries {
		record, err := entries[i].ToRecord()
		if err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
		records = append(records, record)
	}

	return records, nil
}

// ParseFile reads an export from disk and parses it.
//
// Read failures are returned unwrapped; only content problems are ParseErrors.
func (p *Parser) ParseFile(path string) ([]*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return p.ParseExport(data)
}
