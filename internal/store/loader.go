package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/agentic-research/testnames/internal/catalog"
	_ "modernc.org/sqlite"
)

// ErrNotIndexed means the database exists but holds no test index.
var ErrNotIndexed = errors.New("database has no test index")

// Load reads an index written by Save back into a catalog.
func Load(dbPath string) (*catalog.Catalog, error) {
	// sql.Open would create a missing file.
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'tests'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", dbPath, ErrNotIndexed)
	}
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}

	entries, err := loadTests(db)
	if err != nil {
		return nil, err
	}
	if err := loadTags(db, entries); err != nil {
		return nil, err
	}
	return catalog.New(entries), nil
}

func loadTests(db *sql.DB) ([]catalog.Entry, error) {
	rows, err := db.Query(`SELECT id, file, name, pending FROM tests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.ID, &e.File, &e.Name, &e.Pending); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		e.Tags = []string{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tests: %w", err)
	}
	return entries, nil
}

// loadTags fills in entry tags, sorted. Entries are indexed by ID, which
// Save writes as the entry's position.
func loadTags(db *sql.DB, entries []catalog.Entry) error {
	rows, err := db.Query(`SELECT test_id, tag FROM test_tags ORDER BY test_id, tag`)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var (
			id  uint32
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if int(id) >= len(entries) {
			return fmt.Errorf("tag %s references unknown test %d", tag, id)
		}
		entries[id].Tags = append(entries[id].Tags, tag)
	}
	return rows.Err()
}
