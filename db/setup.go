package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SetupDatabase opens (creating if necessary) the SQLite database at
// dbPath, applies pending migrations, and sets the connection pragmas.
// The returned handle is owned by exactly one component at a time.
func SetupDatabase(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if NeedsMigration(database) {
		if err := RunMigrations(dbPath); err != nil {
			database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	// Single-writer workload; WAL keeps readers unblocked during the scan.
	if _, err := database.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		database.Close()
		return nil, fmt.Errorf("set database pragmas: %w", err)
	}

	return database, nil
}

// OpenExisting opens the database at dbPath, failing if the file does
// not already exist. Read paths use this so a mistyped path surfaces
// as an error instead of a freshly migrated empty database.
func OpenExisting(dbPath string) (*sql.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database %s: %w", dbPath, err)
	}
	return SetupDatabase(dbPath)
}
