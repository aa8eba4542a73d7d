package transport

// RegisterRequest carries signup credentials.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse returns a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// TaskCreateRequest carries a new task. Title and priority are
// required; the due date is RFC3339 when present.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// TaskUpdateRequest is a partial update: absent fields keep their
// stored values, which is why everything is a pointer.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
}
