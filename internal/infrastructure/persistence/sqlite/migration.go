package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/notesvc/internal/infrastructure/transaction"
)

//go:embed schema.sql
var schemaSQL string

// migrationDB is the subset of *sql.DB / *sql.Conn the migrator needs
type migrationDB interface {
	dbExecutor
	transaction.TxBeginner
}

// migration is one versioned schema step
type migration struct {
	version     int
	description string
	apply       func(ctx context.Context, db dbExecutor) error
}

// migrations lists every schema step in order. Versions are never reused.
var migrations = []migration{
	{
		version:     1,
		description: "create notes table",
		apply:       applyInitialSchema,
	},
	{
		version:     2,
		description: "add notes.created_at to tables created without it",
		apply:       addCreatedAtColumn,
	},
}

// Migrator manages database schema migrations
type Migrator struct {
	db migrationDB
}

// NewMigrator creates a new database migrator
func NewMigrator(db migrationDB) *Migrator {
	return &Migrator{db: db}
}

// Migrate applies all pending database migrations. It is idempotent.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("create migrations table failed: %w", err)
	}

	// _txlock=immediate takes the write lock at BEGIN, so the applied check
	// and the version insert are serialized across processes.
	tm := transaction.NewSQLiteTransactionManager(m.db)
	for _, mig := range migrations {
		err := tm.InTransaction(ctx, func(txCtx context.Context) error {
			tx, _ := transaction.GetTxFromContext(txCtx)
			applied, err := isApplied(txCtx, tx, mig.version)
			if err != nil {
				return fmt.Errorf("check schema version: %w", err)
			}
			if applied {
				return nil
			}
			if err := mig.apply(txCtx, tx); err != nil {
				return err
			}
			_, err = tx.ExecContext(txCtx,
				`INSERT OR IGNORE INTO schema_migrations (version, description) VALUES (?, ?)`,
				mig.version, mig.description)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %d failed: %w", mig.version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist
func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		);
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

func isApplied(ctx context.Context, db dbExecutor, version int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Version returns the highest applied schema version, 0 when none
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := m.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

func applyInitialSchema(ctx context.Context, db dbExecutor) error {
	for i, stmt := range splitSQLStatements(schemaSQL) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute statement %d failed: %w\nStatement: %s", i, err, stmt)
		}
	}
	return nil
}

// addCreatedAtColumn upgrades a notes table created by the older layout
// (id, title, body). ALTER TABLE cannot add a column with a non-constant
// default, so existing rows are backfilled and inserts set the value.
func addCreatedAtColumn(ctx context.Context, db dbExecutor) error {
	has, err := hasColumn(ctx, db, "notes", "created_at")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	if _, err := db.ExecContext(ctx, `ALTER TABLE notes ADD COLUMN created_at TEXT`); err != nil {
		return fmt.Errorf("add created_at column: %w", err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE notes SET created_at = CURRENT_TIMESTAMP WHERE created_at IS NULL`); err != nil {
		return fmt.Errorf("backfill created_at: %w", err)
	}
	return nil
}

func hasColumn(ctx context.Context, db dbExecutor, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("read table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// splitSQLStatements splits a SQL file into individual statements
func splitSQLStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var cleanLines []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleanLines = append(cleanLines, line)
	}

	statements := strings.Split(strings.Join(cleanLines, "\n"), ";")

	var result []string
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
