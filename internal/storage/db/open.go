// Package db contains the sqlite database code generation and utilities used
// by the storage package.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // sqlite sql.DB driver initialization
)

//go:generate go tool sqlc generate -f ../../../sqlc.yaml

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const connectionPragmas = `
pragma journal_mode = WAL; -- readers proceed during writes
pragma synchronous = normal; -- fsync only on checkpoint
pragma foreign_keys = on; -- owner and session cascades
pragma busy_timeout = 5000; -- wait on the write lock instead of failing
pragma temp_store = memory;
`

// the hook is process global in the driver
var registerPragmas = sync.OnceFunc(func() {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		_, err := conn.ExecContext(context.Background(), connectionPragmas, nil)
		return err
	})
})

// Open initializes a SQLite DB connection to the specified dbPath, creating
// the file and its parent directory if needed, and migrates the schema to the
// latest version.
func Open(ctx context.Context, logger *slog.Logger, dbPath string) (*sql.DB, error) {
	if dbPath != MemoryPath {
		const userOnlyDirPerms = 0o700
		if err := os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
			return nil, fmt.Errorf("failed to create db parent directory: %w", err)
		}
	}
	registerPragmas()

	handle, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	} else if err = handle.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	// one connection serializes writers, so of two racing inserts on a unique
	// index exactly one observes the conflict
	handle.SetMaxOpenConns(1)

	if err = migrate(ctx, logger.With(slog.String("db", dbPath)), handle); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	return handle, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.ContainsRune(dbPath, '?') {
		sep = "&"
	}
	return dbPath + sep + "_time_format=sqlite"
}

func migrate(ctx context.Context, logger *slog.Logger, handle *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, handle, fsys)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, result := range results {
		logger.DebugContext(ctx, "applied migration",
			slog.Int64("version", result.Source.Version),
			slog.Duration("duration", result.Duration),
		)
	}
	return nil
}
