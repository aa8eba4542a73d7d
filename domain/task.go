package domain

import "time"

// Task represents a user-owned activity item. OwnerID is set at
// creation and never changes afterwards.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnedBy reports whether the task belongs to the given user.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.OwnerID == userID
}

// TaskPatch carries a partial update. Nil fields retain the stored
// value.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
}

// Apply merges the patch into the task.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}
