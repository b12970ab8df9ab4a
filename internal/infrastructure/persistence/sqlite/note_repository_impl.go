package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YoshitsuguKoike/notesvc/internal/domain/model/note"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
	"github.com/YoshitsuguKoike/notesvc/internal/infrastructure/transaction"
)

// NoteRepositoryImpl implements repository.NoteRepository with SQLite
type NoteRepositoryImpl struct {
	store *Store
	order repository.ListOrder
}

// NewNoteRepository creates a new SQLite-based Note repository
func NewNoteRepository(store *Store, order repository.ListOrder) *NoteRepositoryImpl {
	return &NoteRepositoryImpl{store: store, order: order}
}

// getDB returns the transaction from context if there is one,
// otherwise the scoped connection
func (r *NoteRepositoryImpl) getDB(ctx context.Context, conn *sql.Conn) dbExecutor {
	if tx, ok := transaction.GetTxFromContext(ctx); ok {
		return tx
	}
	return conn
}

// Create inserts a note and reads it back inside one transaction, so the
// row either exists with every field or nothing is persisted
func (r *NoteRepositoryImpl) Create(ctx context.Context, title, body string) (*note.Note, error) {
	var created *note.Note

	err := r.store.WithConn(ctx, func(conn *sql.Conn) error {
		tm := transaction.NewSQLiteTransactionManager(conn)
		return tm.InTransaction(ctx, func(txCtx context.Context) error {
			db := r.getDB(txCtx, conn)

			result, err := db.ExecContext(txCtx,
				`INSERT INTO notes (title, body, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
				title, body)
			if err != nil {
				return fmt.Errorf("insert note failed: %w", err)
			}

			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("get last insert id failed: %w", err)
			}

			created, err = r.scanNote(db.QueryRowContext(txCtx, `
				SELECT id, COALESCE(title, ''), COALESCE(body, ''), COALESCE(created_at, '')
				FROM notes
				WHERE id = ?
			`, id))
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create note failed: %w", err)
	}

	return created, nil
}

// List returns all notes ordered by id in the configured direction
func (r *NoteRepositoryImpl) List(ctx context.Context) ([]*note.Note, error) {
	query := `
		SELECT id, COALESCE(title, ''), COALESCE(body, ''), COALESCE(created_at, '')
		FROM notes
		ORDER BY id ` + r.order.SQL()

	var notes []*note.Note
	err := r.store.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := r.getDB(ctx, conn).QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("query notes failed: %w", err)
		}
		defer rows.Close()

		notes, err = r.scanNotes(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// Delete removes the note with the given id.
// Returns repository.ErrNoteNotFound when no row matched.
func (r *NoteRepositoryImpl) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.store.WithConn(ctx, func(conn *sql.Conn) error {
		result, err := r.getDB(ctx, conn).ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete note failed: %w", err)
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("delete note %d: %w", id, repository.ErrNoteNotFound)
	}
	return nil
}

// scanNote scans a single row into a Note
func (r *NoteRepositoryImpl) scanNote(row *sql.Row) (*note.Note, error) {
	var (
		id        int64
		title     string
		body      string
		createdAt string
	)
	if err := row.Scan(&id, &title, &body, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoteNotFound
		}
		return nil, fmt.Errorf("scan note failed: %w", err)
	}
	return note.ReconstructNote(id, title, body, createdAt), nil
}

// scanNotes scans multiple rows into Notes
func (r *NoteRepositoryImpl) scanNotes(rows *sql.Rows) ([]*note.Note, error) {
	notes := make([]*note.Note, 0)
	for rows.Next() {
		var (
			id        int64
			title     string
			body      string
			createdAt string
		)
		if err := rows.Scan(&id, &title, &body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note failed: %w", err)
		}
		notes = append(notes, note.ReconstructNote(id, title, body, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes failed: %w", err)
	}
	return notes, nil
}
