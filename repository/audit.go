package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// AuditRepository persists audit events drained from the local store.
type AuditRepository interface {
	InsertBatch(ctx context.Context, events []domain.AuditEvent) error
}
