package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// Create stores a task for the given owner. The owner id always comes
// from the authenticated identity, never from the payload.
func (uc *UseCase) Create(ctx context.Context, ownerID string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.OwnerID = ownerID
	return uc.tasks.Create(ctx, task)
}

// List returns the owner's tasks only.
func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

// Update applies a partial update. Existence is checked before
// ownership, so a requester probing someone else's task id learns it
// exists but gets a 401-mapped rejection; a missing id yields 404.
// The read-then-write pair runs without optimistic locking: two
// concurrent updates to the same task are last-write-wins.
func (uc *UseCase) Update(ctx context.Context, id, requesterID string, patch domain.TaskPatch) (*domain.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(requesterID) {
		return nil, domain.ErrNotOwner
	}

	patch.Apply(existing)
	if err := uc.tasks.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a task. Same check ordering as Update: existence
// first, then ownership.
func (uc *UseCase) Delete(ctx context.Context, id, requesterID string) error {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.OwnedBy(requesterID) {
		return domain.ErrNotOwner
	}
	return uc.tasks.Delete(ctx, id)
}
