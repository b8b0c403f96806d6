package db

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return fn()
}

// Migrate applies every pending migration to db.
func Migrate(db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.Up(db, "migrations"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	var v int64
	err := withGoose(func() error {
		var err error
		v, err = goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("goose version: %w", err)
		}
		return nil
	})
	return v, err
}
