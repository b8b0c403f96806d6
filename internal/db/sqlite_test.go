package db

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	write := buildDSN("/tmp/test.sqlite", ModeWrite)
	read := buildDSN("/tmp/test.sqlite", ModeRead)

	for _, dsn := range []string{write, read} {
		assert.True(t, strings.HasPrefix(dsn, "/tmp/test.sqlite?"))
		assert.Contains(t, dsn, "_journal_mode=WAL")
		assert.Contains(t, dsn, "_busy_timeout=5000")
		assert.Contains(t, dsn, "_synchronous=NORMAL")
		assert.Contains(t, dsn, "_foreign_keys=on")
	}
	assert.Contains(t, write, "_txlock=immediate")
	assert.NotContains(t, read, "_txlock")
}

func TestOpenSQLite_InvalidMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), Mode("append"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite mode")
}

func TestOpen(t *testing.T) {
	pool, err := Open(filepath.Join(t.TempDir(), "test.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	assert.Equal(t, 1, pool.Write.Stats().MaxOpenConnections)
	assert.Equal(t, 4, pool.Read.Stats().MaxOpenConnections)

	var journal string
	require.NoError(t, pool.Read.QueryRow("PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", strings.ToLower(journal))

	var fk int
	require.NoError(t, pool.Write.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate(t *testing.T) {
	pool := OpenTestSQLite(t)

	v, err := SchemaVersion(pool.Write)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"import_sessions", "molecules", "audit_log"} {
		var name string
		err := pool.Read.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Re-running is a no-op.
	require.NoError(t, Migrate(pool.Write))
}

func TestPool_ConcurrentReadsDuringWrite(t *testing.T) {
	pool := OpenTestSQLite(t)

	_, err := pool.Write.Exec(`INSERT INTO audit_log (id, principal_name, action, status) VALUES ('a1', 'alice', 'X', 'ALLOWED')`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			errs <- pool.Read.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&n)
		}()
	}
	_, err = pool.Write.Exec(`INSERT INTO audit_log (id, principal_name, action, status) VALUES ('a2', 'bob', 'X', 'ALLOWED')`)
	require.NoError(t, err)

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
