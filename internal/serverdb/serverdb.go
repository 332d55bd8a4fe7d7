// Package serverdb is the reference schedule service's sqlite store.
package serverdb

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ServerDB is a migrated schedule store.
type ServerDB struct {
	conn *sql.DB
	file bool // backed by a file, so Close checkpoints the WAL
}

// dsn builds a modernc sqlite DSN applying the connection pragmas.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database file at dbPath and migrates
// it to SchemaVersion.
func Open(dbPath string) (*ServerDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	db.file = true
	return db, nil
}

// New migrates an already open connection. Tests use it with an in-memory
// database from another driver.
func New(conn *sql.DB) (*ServerDB, error) {
	db := &ServerDB{conn: conn}
	if _, err := db.migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

// migrate applies every migration newer than the stored user_version, each
// in its own transaction together with the version bump.
func (db *ServerDB) migrate() (applied int, err error) {
	current, err := db.userVersion()
	if err != nil {
		return 0, err
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.conn.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d: set version: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("migration %d: commit: %w", m.Version, err)
		}
		applied++
	}
	return applied, nil
}

func (db *ServerDB) userVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// SchemaVersion returns the version the database is migrated to.
func (db *ServerDB) SchemaVersion() int {
	v, _ := db.userVersion()
	return v
}

// Ping checks the database is reachable.
func (db *ServerDB) Ping() error {
	return db.conn.Ping()
}

// Close checkpoints the WAL of a file database and closes it.
func (db *ServerDB) Close() error {
	if db.file {
		db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return db.conn.Close()
}

// NewID generates a schedule ID.
func NewID() string {
	return uuid.NewString()
}
