// Package storage owns the entries table: a single SQLite database holding
// every billable work record. The store persists fields verbatim; derived
// duration values are computed by callers before they reach this package.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tally/internal/osutil"
)

const (
	// AppName is the application name used for the data directory
	AppName = "tally"
	// DatabaseFile is the name of the SQLite database file
	DatabaseFile = "data.db"
)

// ErrNotFound is returned when an entry id does not exist, or when an
// operation that requires an open session finds none.
var ErrNotFound = errors.New("entry not found")

// Store wraps the SQLite connection for the entries table
type Store struct {
	db *sqlx.DB
}

// GetDatabasePath returns the path to the SQLite database file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetDatabasePath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)

	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, DatabaseFile), nil
}

// Open opens (creating if necessary) the database at path and brings its
// schema up to date. A migration failure here is fatal: the store is
// unusable until the schema is current, so no queries may run before Open
// returns successfully.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}
