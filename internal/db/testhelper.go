package db

import (
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a migrated Pool in t.TempDir() and closes it when the
// test ends.
func OpenTestSQLite(t *testing.T) *Pool {
	t.Helper()

	pool, err := Open(filepath.Join(t.TempDir(), "test.sqlite"), 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := Migrate(pool.Write); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return pool
}
