package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/input"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
)

const (
	maxBodyBytes = 1 << 20

	internalErrorMessage = "internal server error"
	notFoundMessage      = "note not found"
)

// NotesHandler serves the notes JSON API
type NotesHandler struct {
	useCase   input.NoteUseCase
	presenter output.Presenter
	metrics   *Metrics
	logger    app.Logger
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(useCase input.NoteUseCase, presenter output.Presenter, metrics *Metrics, logger app.Logger) *NotesHandler {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &NotesHandler{useCase: useCase, presenter: presenter, metrics: metrics, logger: logger}
}

// List handles GET /api/notes
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.useCase.ListNotes(r.Context())
	if err != nil {
		h.presentInternal(w, r, err)
		return
	}
	h.presenter.PresentSuccess(w, http.StatusOK, notes)
}

// Create handles POST /api/notes
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNoteRequest
	if err := decodeBody(r, &req); err != nil {
		h.presenter.PresentError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	created, err := h.useCase.CreateNote(r.Context(), req)
	switch {
	case err == nil:
		h.metrics.noteCreated()
		h.presenter.PresentSuccess(w, http.StatusCreated, created)
	case errors.Is(err, note.ErrInvalidNote):
		h.presenter.PresentError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.presentInternal(w, r, err)
	}
}

// Delete handles DELETE /api/notes/{id}
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.presenter.PresentError(w, http.StatusUnprocessableEntity, "note id must be an integer")
		return
	}

	err = h.useCase.DeleteNote(r.Context(), id)
	switch {
	case err == nil:
		h.metrics.noteDeleted()
		h.presenter.PresentSuccess(w, http.StatusOK, dto.DeleteNoteResponse{Status: "deleted"})
	case errors.Is(err, repository.ErrNoteNotFound):
		h.presenter.PresentError(w, http.StatusNotFound, notFoundMessage)
	default:
		h.presentInternal(w, r, err)
	}
}

func (h *NotesHandler) presentInternal(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("%s %s id=%s: %v", r.Method, r.URL.Path, RequestIDFromContext(r.Context()), err)
	h.presenter.PresentError(w, http.StatusInternalServerError, internalErrorMessage)
}

// decodeBody decodes exactly one JSON document from the request body.
// Anything after it other than whitespace is an error.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
