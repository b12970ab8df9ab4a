package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
)

// MockNoteRepository is an in-memory implementation of NoteRepository and
// ReadinessChecker for use-case and handler tests
type MockNoteRepository struct {
	mu     sync.RWMutex
	notes  map[int64]*note.Note
	nextID int64
	order  repository.ListOrder

	// Injected failures
	CreateErr error
	ListErr   error
	DeleteErr error
	ReadyErr  error
}

// NewMockNoteRepository creates a new mock note repository
func NewMockNoteRepository(order repository.ListOrder) *MockNoteRepository {
	return &MockNoteRepository{
		notes:  make(map[int64]*note.Note),
		nextID: 1,
		order:  order,
	}
}

func (m *MockNoteRepository) Create(ctx context.Context, title, body string) (*note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	n := note.ReconstructNote(m.nextID, title, body, time.Now().UTC().Format(note.CreatedAtLayout))
	m.notes[n.ID()] = n
	m.nextID++
	return n, nil
}

func (m *MockNoteRepository) List(ctx context.Context) ([]*note.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	out := make([]*note.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if m.order == repository.ListOrderDesc {
			return out[i].ID() > out[j].ID()
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.notes[id]; !ok {
		return fmt.Errorf("delete note %d: %w", id, repository.ErrNoteNotFound)
	}
	delete(m.notes, id)
	return nil
}

func (m *MockNoteRepository) CheckReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ReadyErr != nil {
		return fmt.Errorf("%w: %v", repository.ErrStorageUnavailable, m.ReadyErr)
	}
	return nil
}

// Len returns the number of stored notes
func (m *MockNoteRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes)
}
