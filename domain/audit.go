package domain

import "time"

// Audit actions recorded by the auth layer.
const (
	AuditUserRegistered = "user.registered"
	AuditUserLogin      = "user.login"
	AuditLoginFailed    = "user.login_failed"
	AuditAuthRejected   = "auth.rejected"
)

// AuditEvent is an append-only record of an authentication-related
// action. ActorID may be empty when the actor could not be resolved.
type AuditEvent struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
