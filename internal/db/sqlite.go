// Package db opens the SQLite metastore and applies its schema migrations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Mode selects how a connection pool is tuned.
type Mode string

const (
	// ModeWrite is a single-connection pool that takes the write lock at BEGIN.
	ModeWrite Mode = "write"
	// ModeRead is a multi-connection pool for concurrent readers.
	ModeRead Mode = "read"
)

const (
	busyTimeoutMillis  = "5000"
	synchronousMode    = "NORMAL"
	journalMode        = "WAL"
	defaultReadMaxOpen = 4
	pingTimeout        = 5 * time.Second
)

// Pool holds the write and read connection pools of one SQLite file.
// Writers must go through Write; Read may serve any query that does not
// modify the database.
type Pool struct {
	Write *sql.DB
	Read  *sql.DB
}

// Close closes both pools.
func (p *Pool) Close() error {
	return errors.Join(p.Read.Close(), p.Write.Close())
}

// OpenSQLite opens a *sql.DB for path tuned for mode. Both modes enable WAL,
// a 5s busy timeout, synchronous=NORMAL and foreign keys. ModeWrite pins the
// pool to one connection; ModeRead allows maxOpen (0 means 4).
func OpenSQLite(path string, mode Mode, maxOpen int) (*sql.DB, error) {
	if mode != ModeRead && mode != ModeWrite {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be %q or %q", mode, ModeRead, ModeWrite)
	}

	db, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == ModeWrite {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = defaultReadMaxOpen
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return db, nil
}

// Open opens the write pool first, so the file is created in WAL mode
// before any reader attaches, then the read pool.
func Open(path string, readMaxOpen int) (*Pool, error) {
	w, err := OpenSQLite(path, ModeWrite, 0)
	if err != nil {
		return nil, err
	}
	r, err := OpenSQLite(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Pool{Write: w, Read: r}, nil
}

func buildDSN(path string, mode Mode) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMillis)
	params.Set("_synchronous", synchronousMode)
	params.Set("_foreign_keys", "on")
	if mode == ModeWrite {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
