// Package sqlite provides a blobstore implementation that keeps every
// artifact as a row of a single SQLite database file.
//
// A packed catalog is easier to ship than a directory tree: one file
// holds every category, and updates replace rows transactionally.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hupe1980/orbmatch/blobstore"
	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS blobs (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL
);`

// Store implements blobstore.WritableStore on top of SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and prepares the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Open reads the named blob. The row is read in full; artifacts are
// decoded whole anyway.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM blobs WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return &rowBlob{data: data}, nil
}

// Put inserts or replaces a blob.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO blobs (name, data) VALUES (?, ?)", name, data)
	return err
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE name = ?", name)
	return err
}

// List returns the names of all blobs with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM blobs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type rowBlob struct {
	data []byte
}

func (b *rowBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *rowBlob) Close() error {
	return nil
}

func (b *rowBlob) Size() int64 {
	return int64(len(b.data))
}

// Bytes exposes the row buffer, which the blob owns exclusively.
func (b *rowBlob) Bytes() ([]byte, error) {
	return b.data, nil
}
