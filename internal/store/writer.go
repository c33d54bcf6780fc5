// Package store persists a test catalog in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentic-research/testnames/internal/catalog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tests (
	id INTEGER PRIMARY KEY,
	file TEXT NOT NULL,
	name TEXT NOT NULL,
	pending INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tests_file ON tests(file);

CREATE TABLE IF NOT EXISTS test_tags (
	tag TEXT NOT NULL,
	test_id INTEGER NOT NULL,
	PRIMARY KEY (tag, test_id)
) WITHOUT ROWID;
`

// Writer inserts catalog entries in batched transactions.
type Writer struct {
	db        *sql.DB
	tx        *sql.Tx
	stmtTest  *sql.Stmt
	stmtTag   *sql.Stmt
	batchSize int
	count     int
	mu        sync.Mutex
}

// NewWriter opens (creating if needed) the database at dbPath and
// prepares its schema.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk insert tuning; the index is rebuilt from scratch on failure anyway.
	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{db: db, batchSize: 5000}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtTest, err = w.tx.Prepare(`INSERT OR REPLACE INTO tests (id, file, name, pending) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	w.stmtTag, err = w.tx.Prepare(`INSERT OR IGNORE INTO test_tags (tag, test_id) VALUES (?, ?)`)
	return err
}

func (w *Writer) commitTx() error {
	if w.stmtTest != nil {
		_ = w.stmtTest.Close()
	}
	if w.stmtTag != nil {
		_ = w.stmtTag.Close()
	}
	return w.tx.Commit()
}

// Add writes one entry and its tags.
func (w *Writer) Add(e catalog.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.stmtTest.Exec(e.ID, e.File, e.Name, e.Pending); err != nil {
		return fmt.Errorf("insert test %d: %w", e.ID, err)
	}
	for _, tag := range e.Tags {
		if _, err := w.stmtTag.Exec(tag, e.ID); err != nil {
			return fmt.Errorf("insert tag %s of test %d: %w", tag, e.ID, err)
		}
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		slog.Debug("committed test batch", "size", w.count)
		if err := w.beginTx(); err != nil {
			return fmt.Errorf("begin batch: %w", err)
		}
		w.count = 0
	}
	return nil
}

// Close commits pending rows and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.commitTx()
	return errors.Join(err, w.db.Close())
}

// Abort rolls back rows added since the last batch commit and closes the
// database.
func (w *Writer) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stmtTest != nil {
		_ = w.stmtTest.Close()
	}
	if w.stmtTag != nil {
		_ = w.stmtTag.Close()
	}
	return errors.Join(w.tx.Rollback(), w.db.Close())
}

// Save replaces the index at dbPath with the entries of c in a single
// transaction. On failure the previous contents are kept.
func Save(dbPath string, c *catalog.Catalog) (err error) {
	w, err := NewWriter(dbPath)
	if err != nil {
		return err
	}
	// One batch, so nothing is committed before every entry is written.
	w.batchSize = c.Len() + 1
	defer func() {
		if err != nil {
			err = errors.Join(err, w.Abort())
			return
		}
		err = w.Close()
	}()

	if _, err := w.tx.Exec(`DELETE FROM test_tags; DELETE FROM tests;`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	for _, e := range c.Entries() {
		if err := w.Add(e); err != nil {
			return err
		}
	}
	return nil
}
