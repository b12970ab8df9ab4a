package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"
)

var (
	// ErrNoteNotFound is returned when no note matches the requested id
	ErrNoteNotFound = errors.New("note not found")

	// ErrStorageUnavailable is returned when the storage backend cannot be
	// reached: directory not creatable, file not openable, or probe failed
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ListOrder controls the id ordering of List results
type ListOrder string

const (
	ListOrderAsc  ListOrder = "asc"
	ListOrderDesc ListOrder = "desc"
)

// ParseListOrder converts a config value into a ListOrder
func ParseListOrder(s string) (ListOrder, error) {
	switch ListOrder(strings.ToLower(strings.TrimSpace(s))) {
	case ListOrderAsc, "":
		return ListOrderAsc, nil
	case ListOrderDesc:
		return ListOrderDesc, nil
	default:
		return "", fmt.Errorf("unknown list order %q", s)
	}
}

// SQL returns the ORDER BY direction keyword
func (o ListOrder) SQL() string {
	if o == ListOrderDesc {
		return "DESC"
	}
	return "ASC"
}

// NoteRepository defines the interface for note persistence.
// There is no update: notes are immutable after creation.
type NoteRepository interface {
	// Create inserts a note and returns it with server-assigned fields
	Create(ctx context.Context, title, body string) (*note.Note, error)

	// List returns every note ordered by id
	List(ctx context.Context) ([]*note.Note, error)

	// Delete removes a note; ErrNoteNotFound if nothing matched
	Delete(ctx context.Context, id int64) error
}

// ReadinessChecker probes the storage backend
type ReadinessChecker interface {
	// CheckReady returns an error wrapping ErrStorageUnavailable on failure
	CheckReady(ctx context.Context) error
}
