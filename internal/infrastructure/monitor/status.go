package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	AuditStore bool      `json:"audit_store"`
	AuditQueue int       `json:"audit_queue"`
	LastCheck  time.Time `json:"last_check"`
}
