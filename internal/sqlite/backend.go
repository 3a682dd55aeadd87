// Package sqlite implements the map catalog on SQLite. The catalog is a
// queryable index over the library; the project sidecar remains the
// portable copy of user metadata, so the database file can be deleted and
// rebuilt by a rescan.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/roamly/roamly/internal/paths"
	"github.com/roamly/roamly/pkg/types"
)

// DefaultFileName is the database file created in the data directory.
const DefaultFileName = paths.CatalogFileName

// Config locates the catalog database.
type Config struct {
	DataDir  string
	FileName string
}

// Path returns the database file path.
func (c Config) Path() string {
	if c.FileName == "" {
		return paths.CatalogFile(c.DataDir)
	}
	return paths.InDataDir(c.DataDir, c.FileName)
}

// Backend is the catalog. It must be attached before use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   Config
	db       *sql.DB
}

// NewBackend creates a detached catalog.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) the database and its schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(ctx context.Context, config Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	dbPath := config.Path()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One connection keeps the catalog single-writer.
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Path returns the attached database file.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Path()
}

// handle returns the open database or ErrDetached. Caller holds b.mu.
func (b *Backend) handle() (*sql.DB, error) {
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}
