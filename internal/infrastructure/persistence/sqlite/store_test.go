package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
)

// setupTestStore creates an initialized store in a fresh temp directory
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "data", "notes.db")})
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

// blockedPath returns a database path whose parent cannot be created
// because one of its ancestors is a regular file
func blockedPath(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	return filepath.Join(file, "sub", "notes.db")
}

func TestStore_InitializeCreatesDirectoryAndTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	store := NewStore(StoreConfig{Path: filepath.Join(dir, "notes.db")})
	defer store.Close()

	require.NoError(t, store.Initialize(context.Background()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = store.WithConn(context.Background(), func(conn *sql.Conn) error {
		var name string
		return conn.QueryRowContext(context.Background(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'notes'`).Scan(&name)
	})
	assert.NoError(t, err)
}

func TestStore_InitializeIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewNoteRepository(store, repository.ListOrderAsc)
	_, err := repo.Create(ctx, "keep", "me")
	require.NoError(t, err)

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Initialize(ctx))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

// Several processes may start on one database file at once, each with its
// own handle. Every Initialize must succeed and each version is recorded once.
func TestStore_InitializeConcurrentStores(t *testing.T) {
	const (
		rounds  = 10
		workers = 4
	)
	ctx := context.Background()

	for round := 0; round < rounds; round++ {
		path := filepath.Join(t.TempDir(), "shared", "notes.db")

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store := NewStore(StoreConfig{Path: path})
				defer store.Close()
				errs <- store.Initialize(ctx)
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err, "round %d", round)
		}

		store := NewStore(StoreConfig{Path: path})
		var count int
		err := store.WithConn(ctx, func(conn *sql.Conn) error {
			return conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		})
		require.NoError(t, err)
		require.NoError(t, store.Close())
		assert.Equal(t, len(migrations), count)
	}
}

func TestStore_InitializeUnwritablePath(t *testing.T) {
	tests := []struct {
		name  string
		store *Store
	}{
		{
			name:  "Ancestor is a regular file",
			store: NewStore(StoreConfig{Path: blockedPath(t)}),
		},
		{
			name: "Read-only filesystem",
			store: NewStore(StoreConfig{
				Path: filepath.Join(t.TempDir(), "ro", "notes.db"),
				Fs:   afero.NewReadOnlyFs(afero.NewOsFs()),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.store.Close()
			err := tt.store.Initialize(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
		})
	}
}

func TestStore_CheckReady(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.CheckReady(context.Background()))
}

func TestStore_CheckReadyWithoutInitialize(t *testing.T) {
	store := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "fresh", "notes.db")})
	defer store.Close()

	assert.NoError(t, store.CheckReady(context.Background()))
}

func TestStore_CheckReadyFailure(t *testing.T) {
	store := NewStore(StoreConfig{Path: blockedPath(t)})
	defer store.Close()

	err := store.CheckReady(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
}

func TestStore_CheckReadyAfterDirectoryRemoved(t *testing.T) {
	base := t.TempDir()
	store := NewStore(StoreConfig{Path: filepath.Join(base, "db", "notes.db")})
	defer store.Close()
	require.NoError(t, store.Initialize(context.Background()))
	require.NoError(t, store.Close())

	// Replace the directory with a file so it can neither be opened nor recreated
	require.NoError(t, os.RemoveAll(filepath.Join(base, "db")))
	require.NoError(t, os.WriteFile(filepath.Join(base, "db"), []byte("x"), 0644))

	err := store.CheckReady(context.Background())
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
}

func TestStore_CloseTwice(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
