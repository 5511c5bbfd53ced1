package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQLBackend stores documents as rows of a single documents table. It backs
// both the sqlite and postgres drivers; only the upsert statement differs.
type SQLBackend struct {
	db     *sql.DB
	load   string
	upsert string
}

// NewSQLiteBackend opens (or creates) the SQLite database at path, ensuring
// its directory exists.
func NewSQLiteBackend(path string) (*SQLBackend, error) {
	if path == "" {
		return nil, errors.New("docstore: sqlite backend needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	b := &SQLBackend{
		db:   db,
		load: `SELECT body FROM documents WHERE name = ?`,
		upsert: `INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
	}
	if err := b.ensureSchema(context.Background(), `
CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// NewPostgresBackend connects through the pgx database/sql driver.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*SQLBackend, error) {
	if databaseURL == "" {
		return nil, errors.New("docstore: postgres backend needs a database url")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(8)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	b := &SQLBackend{
		db:   db,
		load: `SELECT body FROM documents WHERE name = $1`,
		upsert: `INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
	}
	if err := b.ensureSchema(ctx, `
CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLBackend) ensureSchema(ctx context.Context, ddl string) error {
	if _, err := b.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (b *SQLBackend) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var body string
	err := b.db.QueryRowContext(ctx, b.load, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(body), nil
}

func (b *SQLBackend) Save(ctx context.Context, name string, body []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx, b.upsert, name, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}
