package domain

import "time"

// Audit statuses.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
)

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID            string
	PrincipalName string
	Action        string
	Status        string // "ALLOWED", "DENIED"
	Detail        *string
	SessionID     *string
	CreatedAt     time.Time
}
