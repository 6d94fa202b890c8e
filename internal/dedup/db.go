// Package dedup remembers completed acquisitions so reruns skip work.
package dedup

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sqlx.DB
}

// concurrencyPragmas ride on the DSN so every pooled connection gets them,
// not just the one that would run a PRAGMA statement.
const concurrencyPragmas = "_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)"

func NewSQLiteDB(dsn string) (*DB, error) {
	sep := "?"
	if strings.ContainsRune(dsn, '?') {
		sep = "&"
	}
	db, err := sqlx.Open("sqlite", dsn+sep+concurrencyPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
