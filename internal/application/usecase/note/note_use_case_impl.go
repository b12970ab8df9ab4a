package note

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	domainnote "github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
)

// NoteUseCaseImpl implements the NoteUseCase interface
type NoteUseCaseImpl struct {
	noteRepo repository.NoteRepository
	ready    repository.ReadinessChecker
	logger   app.Logger
}

// NewNoteUseCaseImpl creates a new note use case implementation
func NewNoteUseCaseImpl(
	noteRepo repository.NoteRepository,
	ready repository.ReadinessChecker,
	logger app.Logger,
) *NoteUseCaseImpl {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &NoteUseCaseImpl{
		noteRepo: noteRepo,
		ready:    ready,
		logger:   logger,
	}
}

// ListNotes returns every note
func (uc *NoteUseCaseImpl) ListNotes(ctx context.Context) ([]dto.NoteDTO, error) {
	notes, err := uc.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	out := make([]dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NewNoteDTO(n))
	}
	return out, nil
}

// CreateNote validates the request and persists the note
func (uc *NoteUseCaseImpl) CreateNote(ctx context.Context, req dto.CreateNoteRequest) (*dto.NoteDTO, error) {
	if err := domainnote.Validate(req.Title, req.Body); err != nil {
		return nil, err
	}

	created, err := uc.noteRepo.Create(ctx, *req.Title, *req.Body)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	uc.logger.Info("created note id=%d", created.ID())
	result := dto.NewNoteDTO(created)
	return &result, nil
}

// DeleteNote removes a note; repository.ErrNoteNotFound passes through
func (uc *NoteUseCaseImpl) DeleteNote(ctx context.Context, id int64) error {
	if err := uc.noteRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("deleted note id=%d", id)
	return nil
}

// CheckReady probes the storage backend
func (uc *NoteUseCaseImpl) CheckReady(ctx context.Context) error {
	if err := uc.ready.CheckReady(ctx); err != nil {
		uc.logger.Warn("readiness check failed: %v", err)
		return err
	}
	return nil
}
