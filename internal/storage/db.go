// Package storage persists analysis runs so past manabase analyses can be
// listed and compared.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection and provides access to the run store.
type DB struct {
	conn *sql.DB
}

// Config holds database configuration settings.
type Config struct {
	// Path is the file path to the SQLite database.
	Path string

	// BusyTimeout sets how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode.
	// Default: WAL
	JournalMode string

	// Synchronous sets the SQLite synchronous mode.
	// Default: NORMAL
	Synchronous string

	// AutoMigrate automatically runs pending migrations on Open.
	AutoMigrate bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
		Synchronous: "NORMAL",
		AutoMigrate: true,
	}
}

// Open creates a new database connection with the given configuration.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if config.AutoMigrate {
		mgr, err := NewMigrationManager(config.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration manager: %w", err)
		}
		if err := mgr.Up(); err != nil {
			_ = mgr.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if err := mgr.Close(); err != nil {
			return nil, fmt.Errorf("failed to close migration manager: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=%s&_synchronous=%s&_foreign_keys=on",
		config.Path,
		config.BusyTimeout.Milliseconds(),
		config.JournalMode,
		config.Synchronous,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to close database after ping error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn exposes the underlying connection for repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
