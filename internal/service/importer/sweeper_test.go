package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"moleculehub/internal/domain"
	"moleculehub/internal/registry"
	"moleculehub/internal/service/audit"
	"moleculehub/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewSweeper_InvalidSchedule(t *testing.T) {
	_, err := NewSweeper(&Service{}, "every now and then", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweep schedule")
}

func TestSweeper_SweepUsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	sessions := &testutil.MockImportSessionRepo{
		DeleteStaleFn: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 2, nil
		},
	}
	auditRepo := &testutil.MockAuditRepo{}
	svc := NewService(sessions, registry.Default(), nil,
		audit.NewService(auditRepo, nil), nil, Options{SessionTTL: time.Hour})

	sw, err := NewSweeper(svc, "@every 1h", nil)
	require.NoError(t, err)
	sw.now = func() time.Time { return fixed }

	sw.sweep()
	assert.Equal(t, fixed.Add(-time.Hour), gotCutoff)
	assert.True(t, auditRepo.HasAction(audit.ActionImportExpire))
}

func TestSweeper_SweepErrorIsLogged(t *testing.T) {
	sessions := &testutil.MockImportSessionRepo{
		DeleteStaleFn: func(context.Context, time.Time) (int64, error) {
			return 0, domain.ErrConflict("database is locked")
		},
	}
	svc := NewService(sessions, registry.Default(), nil, nil, nil, Options{})

	sw, err := NewSweeper(svc, "@every 1h", nil)
	require.NoError(t, err)
	assert.NotPanics(t, sw.sweep)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	svc := NewService(&testutil.MockImportSessionRepo{}, registry.Default(), nil, nil, nil, Options{})
	sw, err := NewSweeper(svc, "@every 1h", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
