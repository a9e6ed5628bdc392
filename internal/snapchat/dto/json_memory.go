package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nowesr1/snapstash/internal/model"
)

// ErrMissingField is returned by ToRecord when a required field is absent.
var ErrMissingField = errors.New("missing required field")

// Export field names as they appear in the memories JSON.
const (
	FieldSavedMedia    = "Saved Media"
	FieldDate          = "Date"
	FieldMediaType     = "Media Type"
	FieldDownloadLink  = "Download Link"
	FieldMediaDownload = "Media Download Url"
)

// JSONExport is the top-level object of a memories export.
type JSONExport struct {
	SavedMedia *[]JSONMemory `json:"Saved Media"`
}

// JSONMemory is one entry of the "Saved Media" array.
//
// Pointer fields distinguish an absent (or null) key from an empty string.
type JSONMemory struct {
	ID               *string `json:"ID"`
	Date             *string `json:"Date"`
	MediaType        *string `json:"Media Type"`
	DownloadLink     *string `json:"Download Link"`
	MediaDownloadURL *string `json:"Media Download Url"`
}

// MissingField returns the name of the first absent required field, or "".
func (jm *JSONMemory) MissingField() string {
	switch {
	case jm.Date == nil:
		return FieldDate
	case jm.MediaType == nil:
		return FieldMediaType
	case jm.DownloadLink == nil:
		return FieldDownloadLink
	}
	return ""
}

// ToRecord converts the entry to a model.Record.
//
// An entry without an ID gets a freshly generated one.
func (jm *JSONMemory) ToRecord() (*model.Record, error) {
	if field := jm.MissingField(); field != "" {
		return nil, &FieldError{Field: field}
	}

	id := ""
	if jm.ID != nil {
		id = strings.TrimSpace(*jm.ID)
	}
	if id == "" {
		id = uuid.NewString()
	}

	secondary := ""
	if jm.MediaDownloadURL != nil {
		secondary = *jm.MediaDownloadURL
	}

	return &model.Record{
		ID:            id,
		TimestampText: *jm.Date,
		Kind:          model.ParseMediaKind(*jm.MediaType),
		PrimaryLink:   *jm.DownloadLink,
		SecondaryLink: secondary,
	}, nil
}

// FieldError names a required field missing from an entry.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v %q", ErrMissingField, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}
