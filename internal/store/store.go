// Package store is the on-disk documentation index: a sqlite name index
// plus one zstd-compressed entry blob per crate. The presentation layer
// only ever reads it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oxidoc/oxidoc/internal/doc"
)

// Location addresses one entry in the store. Consumers treat it as an
// opaque handle; only the driver knows how to dereference it.
type Location struct {
	Crate   string
	Version string
	Entry   int // index into the crate's entry blob
}

type Store struct {
	dir  string
	conn *sql.DB
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dsn := "file:" + filepath.Join(dir, "index.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	s := &Store{dir: dir, conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS crates (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, version)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			crate_id INTEGER NOT NULL REFERENCES crates(id),
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			kind TEXT NOT NULL,
			entry_index INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_name ON items (name)`,
		`CREATE INDEX IF NOT EXISTS idx_items_path ON items (path)`,
	}

	for _, q := range queries {
		if _, err := s.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// LookupName returns the locations matching a name query: exact name
// matches first, then exact paths, then path-suffix matches, then plain
// substring matches, ties broken by path then crate. The ordering is
// deterministic for a fixed index; there is no fuzzy matching.
func (s *Store) LookupName(query string) ([]Location, error) {
	rows, err := s.conn.Query(`
		SELECT c.name, c.version, i.entry_index,
			CASE
				WHEN i.name = ?1 THEN 0
				WHEN i.path = ?1 THEN 1
				WHEN i.path LIKE '%::' || ?1 THEN 2
				ELSE 3
			END AS tier
		FROM items i JOIN crates c ON c.id = i.crate_id
		WHERE i.name = ?1
			OR i.path = ?1
			OR i.path LIKE '%::' || ?1
			OR i.path LIKE '%' || ?1 || '%'
		ORDER BY tier, i.path, c.name, c.version`, query)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var locs []Location
	for rows.Next() {
		var loc Location
		var tier int
		if err := rows.Scan(&loc.Crate, &loc.Version, &loc.Entry, &tier); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// ReplaceCrate writes the entry blob for a crate and reindexes its
// items, replacing any previous generation of the same crate/version.
func (s *Store) ReplaceCrate(name, version string, entries []doc.Entry) error {
	if err := writeBlob(blobPath(s.dir, name, version), entries); err != nil {
		return fmt.Errorf("writing entries for %s %s: %w", name, version, err)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	crateID, err := upsertCrate(tx, name, version)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM items WHERE crate_id = ?`, crateID); err != nil {
		return fmt.Errorf("clearing old items: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO items (crate_id, name, path, kind, entry_index) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for i, e := range entries {
		if _, err := insert.Exec(crateID, e.Name, e.Path.String(), doc.KindName(e.Inner), i); err != nil {
			return fmt.Errorf("indexing %s: %w", e.Path, err)
		}
	}

	return tx.Commit()
}

func upsertCrate(tx *sql.Tx, name, version string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM crates WHERE name = ? AND version = ?`, name, version).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking crate: %w", err)
	}

	result, err := tx.Exec(`INSERT INTO crates (name, version) VALUES (?, ?)`, name, version)
	if err != nil {
		return 0, fmt.Errorf("inserting crate: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting crate id: %w", err)
	}
	return id, nil
}
