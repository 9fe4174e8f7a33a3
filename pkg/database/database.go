package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

//go:embed migrations
var migrations embed.FS

// NewPostgres opens a PostgreSQL connection pool and applies migrations.
func NewPostgres(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	db := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if err := applyMigrations(db, Postgres); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// NewSQLite opens a single-connection SQLite database at path and applies
// migrations. ":memory:" gives a private in-memory database.
func NewSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db, SQLite); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func applyMigrations(db *sql.DB, dialect Dialect) error {
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations/" + migrationDir(dialect),
	}

	n, err := migrate.Exec(db, string(dialect), source, migrate.Up)
	if err != nil {
		return fmt.Errorf("applying %s migrations: %w", dialect, err)
	}

	slog.Info("database migrations applied", "dialect", dialect, "count", n)
	return nil
}

func migrationDir(dialect Dialect) string {
	if dialect == SQLite {
		return "sqlite"
	}
	return "postgres"
}
