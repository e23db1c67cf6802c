// Package db stores the clip manifest of a preview run in SQLite so that a
// later final run, the picker, and the clips commands can recover which
// index maps to which clip file.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ManifestName is the file name of the manifest inside the output directory.
const ManifestName = "manifest.db"

// ManifestPath returns the manifest location for an output directory.
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestName)
}

// Open opens or creates the SQLite manifest at path.
// Parent directories are created if they don't exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create manifest dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single writer keeps sqlite from reporting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenExisting opens the manifest of outputDir, failing if no preview run
// has written one yet.
func OpenExisting(outputDir string) (*sql.DB, error) {
	path := ManifestPath(outputDir)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no clip manifest in %s, run preview first: %w", outputDir, err)
	}
	return Open(path)
}
