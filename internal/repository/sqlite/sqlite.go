// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure-Go translation of SQLite, so the
// binary cross-compiles without a C toolchain. The database is a single file;
// tests point it at a throwaway file in a temp dir, since ":memory:" gives
// each pooled connection its own empty database. WAL mode lets reads proceed
// while a write is in flight, which matters for a web server; foreign keys
// are switched on
// because the schema leans on ON DELETE SET NULL / CASCADE for the edges
// that DO cascade.
//
// One edge deliberately has no foreign key: tasks.idea_id. The idea link is a
// weak reference and drift across it is a representable state — the repair
// tooling audits and corrects it rather than the schema forbidding it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and implements every repository interface plus
// the repair store.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open is lazy; Ping surfaces a bad path or permissions now instead
	// of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool. Defer it wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent;
// embedded SQL constants are enough at this scale (a migration tool earns its
// keep once the schema starts changing under live data).
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				display_name  TEXT NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL DEFAULT '',
				github_id     INTEGER,
				avatar_url    TEXT NOT NULL DEFAULT '',
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
				ON users(github_id) WHERE github_id IS NOT NULL;
		`},
		{"groups", `
			CREATE TABLE IF NOT EXISTS groups (
				id         TEXT PRIMARY KEY,
				owner_id   TEXT NOT NULL REFERENCES users(id),
				name       TEXT NOT NULL,
				color      TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_groups_owner_id ON groups(owner_id);
		`},
		{"ideas", `
			CREATE TABLE IF NOT EXISTS ideas (
				id          TEXT PRIMARY KEY,
				owner_id    TEXT NOT NULL REFERENCES users(id),
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				color       TEXT NOT NULL DEFAULT '',
				group_id    TEXT REFERENCES groups(id) ON DELETE SET NULL,
				position_x  REAL NOT NULL DEFAULT 0,
				position_y  REAL NOT NULL DEFAULT 0,
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_ideas_owner_id ON ideas(owner_id);
			CREATE INDEX IF NOT EXISTS idx_ideas_group_id ON ideas(group_id);
		`},
		{"todo_lists", `
			CREATE TABLE IF NOT EXISTS todo_lists (
				id         TEXT PRIMARY KEY,
				owner_id   TEXT NOT NULL REFERENCES users(id),
				group_id   TEXT,
				name       TEXT NOT NULL,
				archived   INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_todo_lists_owner_id ON todo_lists(owner_id);
			CREATE INDEX IF NOT EXISTS idx_todo_lists_group_id ON todo_lists(group_id);
		`},
		{"sections", `
			CREATE TABLE IF NOT EXISTS sections (
				id           TEXT PRIMARY KEY,
				todo_list_id TEXT NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
				name         TEXT NOT NULL,
				order_index  REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_sections_todo_list_id ON sections(todo_list_id);
		`},
		{"tasks", `
			CREATE TABLE IF NOT EXISTS tasks (
				id           TEXT PRIMARY KEY,
				todo_list_id TEXT NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
				section_id   TEXT REFERENCES sections(id) ON DELETE SET NULL,
				idea_id      TEXT,
				title        TEXT NOT NULL,
				completed    INTEGER NOT NULL DEFAULT 0,
				order_index  REAL NOT NULL DEFAULT 0,
				created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_todo_list_id ON tasks(todo_list_id);
			CREATE INDEX IF NOT EXISTS idx_tasks_idea_id ON tasks(idea_id);
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}
	return nil
}

// inTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// placeholders returns "?, ?, ..." for n parameters of an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 3*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '?')
	}
	return string(b)
}

// args converts a string slice to the []any that database/sql wants.
func args(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
