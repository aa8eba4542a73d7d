package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/audit"
)

type fakeAuditRepo struct {
	mu       sync.Mutex
	inserted []domain.AuditEvent
	fail     bool
}

func (r *fakeAuditRepo) InsertBatch(ctx context.Context, events []domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("db offline")
	}
	r.inserted = append(r.inserted, events...)
	return nil
}

type staticHealth struct{ online bool }

func (h staticHealth) IsOnline() bool { return h.online }

func newRecorderFixture(t *testing.T, online bool, repo *fakeAuditRepo) *AuditRecorder {
	t.Helper()
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewAuditRecorder(store, staticHealth{online: online}, repo, nil, RecorderConfig{
		Interval:  time.Minute,
		BatchSize: 10,
		MaxRetry:  2,
		Retention: time.Hour,
	})
}

func TestDrainFlushesToRepository(t *testing.T) {
	repo := &fakeAuditRepo{}
	recorder := newRecorderFixture(t, true, repo)

	require.NoError(t, recorder.Record(context.Background(), domain.AuditEvent{Action: domain.AuditUserLogin}))
	require.NoError(t, recorder.Record(context.Background(), domain.AuditEvent{Action: domain.AuditUserRegistered}))
	assert.Equal(t, 2, recorder.Size())

	require.NoError(t, recorder.Drain(context.Background()))

	assert.Len(t, repo.inserted, 2)
	assert.Equal(t, 0, recorder.Size())
}

func TestDrainSkippedWhileOffline(t *testing.T) {
	repo := &fakeAuditRepo{}
	recorder := newRecorderFixture(t, false, repo)

	require.NoError(t, recorder.Record(context.Background(), domain.AuditEvent{Action: domain.AuditUserLogin}))
	require.NoError(t, recorder.Drain(context.Background()))

	assert.Empty(t, repo.inserted)
	assert.Equal(t, 1, recorder.Size(), "events stay queued until the database is back")
}

func TestConcurrentDrainsAreSerialized(t *testing.T) {
	repo := &fakeAuditRepo{fail: true}
	recorder := newRecorderFixture(t, true, repo)

	require.NoError(t, recorder.Record(context.Background(), domain.AuditEvent{Action: domain.AuditUserLogin}))

	// Overlapping cron triggers each run Drain in their own goroutine.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = recorder.Drain(context.Background())
		}()
	}
	wg.Wait()

	// MaxRetry is 2, so the failing event is counted twice and dropped;
	// the remaining drains see an empty store.
	assert.Equal(t, 0, recorder.Size())
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	repo := &fakeAuditRepo{fail: true}
	recorder := newRecorderFixture(t, true, repo)

	require.NoError(t, recorder.Record(context.Background(), domain.AuditEvent{Action: domain.AuditUserLogin}))

	require.Error(t, recorder.Drain(context.Background()))
	require.Error(t, recorder.Drain(context.Background()))

	assert.Equal(t, 0, recorder.Size(), "event dropped after retry cap")
}
