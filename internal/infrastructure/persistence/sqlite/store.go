package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
)

// dbExecutor is an interface for executing database queries
// *sql.DB, *sql.Conn and *sql.Tx all implement this interface
type dbExecutor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// dsnOptions are appended to the database path. SQLite serializes writers;
// busy_timeout makes concurrent writers wait instead of failing fast.
const dsnOptions = "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// StoreConfig is the explicit configuration a Store holds for its lifetime
type StoreConfig struct {
	Path   string    // Database file path
	Fs     afero.Fs  // Filesystem used to create the containing directory
	Logger app.Logger
}

// Store owns the SQLite database file that backs the notes table.
// Every operation acquires its own connection from the handle and releases
// it on return.
type Store struct {
	path   string
	fs     afero.Fs
	logger app.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store. Nothing touches the filesystem until Initialize.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = app.NopLogger()
	}
	return &Store{
		path:   cfg.Path,
		fs:     cfg.Fs,
		logger: cfg.Logger,
	}
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Initialize ensures the containing directory and the schema exist.
// It is idempotent and safe to call on every startup.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	err := s.WithConn(ctx, func(conn *sql.Conn) error {
		return NewMigrator(conn).Migrate(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: initialize %s: %v", repository.ErrStorageUnavailable, s.path, err)
	}

	s.logger.Info("notes store ready at %s", s.path)
	return nil
}

// CheckReady runs a no-op read against the database.
// Any failure is reported as ErrStorageUnavailable.
func (s *Store) CheckReady(ctx context.Context) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	err := s.WithConn(ctx, func(conn *sql.Conn) error {
		var one int
		return conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", repository.ErrStorageUnavailable, err)
	}
	return nil
}

// WithConn acquires a dedicated connection, runs fn, and releases the
// connection unconditionally
func (s *Store) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// Close releases the underlying handle
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// handle lazily opens the database handle. sql.Open does not touch the
// file; the first connection does.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite3", s.path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrStorageUnavailable, s.path, err)
	}
	s.db = db
	return db, nil
}

func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", repository.ErrStorageUnavailable, dir, err)
	}
	return nil
}
