package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/audit"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RecorderConfig controls how frequently the audit store is drained.
type RecorderConfig struct {
	Interval  time.Duration
	BatchSize int
	MaxRetry  int
	Retention time.Duration
}

// AuditRecorder accepts audit events, persists them to the local Bolt
// store, and drains them into Postgres on a cron schedule. Draining is
// skipped while the database is offline; events older than the
// retention window are dropped so the local store cannot grow without
// bound.
type AuditRecorder struct {
	store   *audit.Store
	monitor ConnectionHealth
	repo    repository.AuditRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RecorderConfig

	// drainMu serializes drain runs. cron fires each trigger in its own
	// goroutine, so a drain that outlasts the interval would otherwise
	// overlap the next one and race on the retry counts.
	drainMu sync.Mutex
	retries map[string]int
}

func NewAuditRecorder(
	store *audit.Store,
	monitor ConnectionHealth,
	repo repository.AuditRepository,
	logger *zap.Logger,
	cfg RecorderConfig,
) *AuditRecorder {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ar := &AuditRecorder{
		store:   store,
		monitor: monitor,
		repo:    repo,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		retries: make(map[string]int),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = ar.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := ar.Drain(ctx); err != nil {
			ar.logger.Error("audit drain failed", zap.Error(err))
		}
	})

	return ar
}

// Record appends the event to the local store. Implements
// usecase.AuditTrail.
func (ar *AuditRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	if ar == nil || ar.store == nil {
		return fmt.Errorf("audit recorder not configured")
	}
	return ar.store.Append(event)
}

// Start launches the cron scheduler.
func (ar *AuditRecorder) Start() {
	if ar == nil || ar.cron == nil {
		return
	}
	ar.cron.Start()
	ar.logger.Info("audit recorder started")
}

// Stop gracefully stops the scheduler.
func (ar *AuditRecorder) Stop(ctx context.Context) {
	if ar == nil || ar.cron == nil {
		return
	}
	stopCtx := ar.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ar.logger.Info("audit recorder stopped")
}

// Drain flushes a batch of stored events into Postgres.
func (ar *AuditRecorder) Drain(ctx context.Context) error {
	if ar == nil || ar.store == nil || ar.repo == nil {
		return nil
	}
	ar.drainMu.Lock()
	defer ar.drainMu.Unlock()

	if ar.monitor != nil && !ar.monitor.IsOnline() {
		ar.logger.Debug("skipping audit drain (offline)")
		return nil
	}

	events, err := ar.store.GetBatch(ar.cfg.BatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return ar.store.Cleanup(time.Now().Add(-ar.cfg.Retention))
	}

	if err := ar.repo.InsertBatch(ctx, events); err != nil {
		ar.bumpRetries(events)
		return err
	}

	for _, event := range events {
		delete(ar.retries, event.ID)
	}
	if err := ar.store.Remove(events); err != nil {
		ar.logger.Warn("failed to purge drained audit events", zap.Error(err))
	}
	return ar.store.Cleanup(time.Now().Add(-ar.cfg.Retention))
}

// Size returns the number of locally stored events.
func (ar *AuditRecorder) Size() int {
	if ar == nil || ar.store == nil {
		return 0
	}
	size, err := ar.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (ar *AuditRecorder) bumpRetries(events []domain.AuditEvent) {
	var dropped []domain.AuditEvent
	for _, event := range events {
		ar.retries[event.ID]++
		if ar.retries[event.ID] >= ar.cfg.MaxRetry {
			dropped = append(dropped, event)
			delete(ar.retries, event.ID)
		}
	}
	if len(dropped) > 0 {
		ar.logger.Warn("dropping audit events (max retries reached)", zap.Int("count", len(dropped)))
		if err := ar.store.Remove(dropped); err != nil {
			ar.logger.Error("failed to drop audit events", zap.Error(err))
		}
	}
}

var _ usecase.AuditTrail = (*AuditRecorder)(nil)
