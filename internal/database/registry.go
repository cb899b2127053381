// Package database stores the local registry of known databases: their name,
// Odoo version and the repository they are linked to.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a database name is not registered.
var ErrNotFound = errors.New("database not found")

// Database is a single registry record. Repository is the full name
// ("org/repo") of the linked repository, empty when the database is not
// linked to one.
type Database struct {
	Name       string
	Version    string
	Repository string
}

// Registry is a SQLite-backed store of Database records.
type Registry struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and creates when needed) the registry at dbPath.
// Use ":memory:" for an in-memory registry.
func Open(dbPath string) (*Registry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open registry database: %w", err)
	}

	r := &Registry{db: db}
	if err := r.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize registry schema: %w", err)
	}
	return r, nil
}

func (r *Registry) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS databases (
		name TEXT PRIMARY KEY,
		version TEXT NOT NULL DEFAULT '',
		repository TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Get returns the record for name, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, name string) (*Database, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT name, version, repository FROM databases WHERE name = ?", name)

	var d Database
	if err := row.Scan(&d.Name, &d.Version, &d.Repository); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("query database %q: %w", name, err)
	}
	return &d, nil
}

// List returns all records ordered by name.
func (r *Registry) List(ctx context.Context) ([]Database, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT name, version, repository FROM databases ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query databases: %w", err)
	}
	defer rows.Close()

	var out []Database
	for rows.Next() {
		var d Database
		if err := rows.Scan(&d.Name, &d.Version, &d.Repository); err != nil {
			return nil, fmt.Errorf("scan database row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Save inserts or updates a record keyed by name.
func (r *Registry) Save(ctx context.Context, d Database) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Name == "" {
		return errors.New("database name must not be empty")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO databases (name, version, repository) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET version = excluded.version, repository = excluded.repository`,
		d.Name, d.Version, d.Repository,
	)
	if err != nil {
		return fmt.Errorf("save database %q: %w", d.Name, err)
	}
	return nil
}

// Delete removes the record for name. Deleting an unknown name is not an error.
func (r *Registry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, "DELETE FROM databases WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete database %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}
