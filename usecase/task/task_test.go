package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok {
		clone := *task
		return &clone, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (r *fakeTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, task := range r.tasks {
		if task.OwnerID == filter.OwnerID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	r.tasks[task.ID] = &clone
	return task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func strptr(s string) *string { return &s }

func seedTask(t *testing.T, uc *UseCase, ownerID string) *domain.Task {
	t.Helper()
	created, err := uc.Create(context.Background(), ownerID, &domain.Task{
		Title:       "write report",
		Description: "quarterly numbers",
		Priority:    "high",
	})
	require.NoError(t, err)
	return created
}

func TestCreateForcesOwner(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)

	created, err := uc.Create(context.Background(), "owner-1", &domain.Task{
		Title:    "t",
		Priority: "low",
		OwnerID:  "someone-else",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", created.OwnerID)
}

func TestListIsOwnerScoped(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)
	seedTask(t, uc, "owner-1")
	seedTask(t, uc, "owner-2")

	tasks, err := uc.List(context.Background(), repository.TaskFilter{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "owner-1", tasks[0].OwnerID)
}

func TestUpdatePartialRetainsUnsetFields(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)
	created := seedTask(t, uc, "owner-1")

	updated, err := uc.Update(context.Background(), created.ID, "owner-1", domain.TaskPatch{
		Priority: strptr("low"),
	})
	require.NoError(t, err)

	assert.Equal(t, "low", updated.Priority)
	assert.Equal(t, "write report", updated.Title)
	assert.Equal(t, "quarterly numbers", updated.Description)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateExistenceBeforeOwnership(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)
	created := seedTask(t, uc, "owner-1")

	// Missing task: not-found even for a non-owner probing random ids.
	_, err := uc.Update(context.Background(), uuid.NewString(), "owner-2", domain.TaskPatch{})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	// Existing task, wrong owner: ownership rejection, not not-found.
	_, err = uc.Update(context.Background(), created.ID, "owner-2", domain.TaskPatch{Title: strptr("hijacked")})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// The task is untouched.
	unchanged, err := uc.Update(context.Background(), created.ID, "owner-1", domain.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, "write report", unchanged.Title)
}

func TestDeleteExistenceBeforeOwnership(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil)
	created := seedTask(t, uc, "owner-1")

	err := uc.Delete(context.Background(), uuid.NewString(), "owner-2")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.Delete(context.Background(), created.ID, "owner-2")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = uc.Delete(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)

	err = uc.Delete(context.Background(), created.ID, "owner-1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
