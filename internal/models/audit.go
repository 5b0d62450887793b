package models

import (
	"time"

	"github.com/gocql/gocql"
)

// AuditLog registra acciones destructivas o críticas. Se escribe de
// forma asíncrona para no bloquear la respuesta.
type AuditLog struct {
	ID          gocql.UUID `json:"id" db:"id"`
	Action      string     `json:"action" db:"action"`
	TargetID    string     `json:"target_id" db:"target_id"`
	TargetName  string     `json:"target_name" db:"target_name"`
	PerformedBy string     `json:"performed_by" db:"performed_by"`
	PerformedAt time.Time  `json:"performed_at" db:"performed_at"`
	IPAddress   string     `json:"ip_address,omitempty" db:"ip_address"`
	Details     string     `json:"details,omitempty" db:"details"`
}
