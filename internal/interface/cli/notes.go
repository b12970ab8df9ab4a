package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/notesvc/internal/infrastructure/di"
	"github.com/YoshitsuguKoike/notesvc/internal/infrastructure/persistence/sqlite"
)

func newNotesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Notes API service",
	}
	cmd.AddCommand(newNotesServeCmd(opts))
	cmd.AddCommand(newNotesMigrateCmd(opts))
	return cmd
}

func newNotesServeCmd(opts *rootOptions) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notes API and UI",
		Long:  "Initialize the notes database, then serve the JSON API, the static UI, probes and metrics until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg = cfg.WithNotesAddr(addr)
			}
			if cmd.Flags().Changed("db-path") {
				cfg = cfg.WithDBPath(dbPath)
			}

			container, err := di.NewContainer(di.Config{App: cfg, Logger: opts.logger})
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := setupSignalHandler(cmd.Context())
			defer cancel()

			if err := container.InitializeStore(ctx); err != nil {
				return err
			}
			return runServer(ctx, container.NotesServer(), opts.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides NOTES_ADDR)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (overrides DB_PATH)")
	return cmd
}

func newNotesMigrateCmd(opts *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the notes database and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("db-path") {
				cfg = cfg.WithDBPath(dbPath)
			}

			container, err := di.NewContainer(di.Config{App: cfg, Logger: opts.logger})
			if err != nil {
				return err
			}
			defer container.Close()

			ctx := cmd.Context()
			if err := container.InitializeStore(ctx); err != nil {
				return err
			}

			version, err := schemaVersion(ctx, container.GetStore())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", cfg.DBPath(), version)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (overrides DB_PATH)")
	return cmd
}

func schemaVersion(ctx context.Context, store *sqlite.Store) (int, error) {
	var version int
	err := store.WithConn(ctx, func(conn *sql.Conn) error {
		v, err := sqlite.NewMigrator(conn).Version(ctx)
		version = v
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
