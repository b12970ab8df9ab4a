package dto

import "github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"

// CreateNoteRequest is the body of POST /api/notes.
// Pointers tell a missing field apart from an empty one.
type CreateNoteRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// NoteDTO represents a note in data transfer format
type NoteDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// NewNoteDTO maps a domain note to its transfer format
func NewNoteDTO(n *note.Note) NoteDTO {
	return NoteDTO{
		ID:        n.ID(),
		Title:     n.Title(),
		Body:      n.Body(),
		CreatedAt: n.CreatedAt(),
	}
}

// DeleteNoteResponse is returned after a successful delete
type DeleteNoteResponse struct {
	Status string `json:"status"`
}

// StatusResponse is the body of the liveness and readiness probes
type StatusResponse struct {
	Status string `json:"status"`
}
