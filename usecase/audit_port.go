package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// AuditTrail abstracts the audit recorder so use cases and middleware
// stay storage-agnostic. Recording is best effort: callers log
// failures but never fail the request over them.
type AuditTrail interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
