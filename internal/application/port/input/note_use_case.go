package input

import (
	"context"

	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
)

// NoteUseCase defines the notes API operations
type NoteUseCase interface {
	// ListNotes returns every note in the configured order
	ListNotes(ctx context.Context) ([]dto.NoteDTO, error)

	// CreateNote validates and persists a note
	CreateNote(ctx context.Context, req dto.CreateNoteRequest) (*dto.NoteDTO, error)

	// DeleteNote removes a note by id
	DeleteNote(ctx context.Context, id int64) error

	// CheckReady probes the storage backend
	CheckReady(ctx context.Context) error
}
