package note

import (
	"errors"
	"fmt"
)

// ErrInvalidNote is returned when a note fails validation
var ErrInvalidNote = errors.New("invalid note")

// CreatedAtLayout is the layout SQLite uses for CURRENT_TIMESTAMP
const CreatedAtLayout = "2006-01-02 15:04:05"

// Note represents a persisted note.
// Notes are immutable once created; they can only be deleted.
type Note struct {
	id        int64
	title     string
	body      string
	createdAt string
}

// Validate checks the fields a caller supplies when creating a note.
// Both fields must be present; empty strings are accepted.
func Validate(title, body *string) error {
	if title == nil {
		return fmt.Errorf("%w: title is required", ErrInvalidNote)
	}
	if body == nil {
		return fmt.Errorf("%w: body is required", ErrInvalidNote)
	}
	return nil
}

// ReconstructNote reconstructs a Note from stored data
func ReconstructNote(id int64, title, body, createdAt string) *Note {
	return &Note{
		id:        id,
		title:     title,
		body:      body,
		createdAt: createdAt,
	}
}

// Getters
func (n *Note) ID() int64         { return n.id }
func (n *Note) Title() string     { return n.title }
func (n *Note) Body() string      { return n.body }
func (n *Note) CreatedAt() string { return n.createdAt }
