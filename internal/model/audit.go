package model

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionApprove AuditAction = "APPROVE"
)

// AuditEntry is an immutable record of one state-changing operation.
type AuditEntry struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Actor      string      `json:"user"`
	Action     AuditAction `json:"action"`
	EntityKind EntityKind  `json:"entity"`
	EntityID   string      `json:"entityId"`
	Details    string      `json:"details"`
}

// ISOTimestamp renders the entry time in ISO-8601 (RFC 3339, UTC).
func (e AuditEntry) ISOTimestamp() string {
	return e.Timestamp.UTC().Format(time.RFC3339)
}

// AuditFilter narrows audit queries. Zero fields match everything.
type AuditFilter struct {
	EntityID   string
	EntityKind EntityKind
}

// Matches reports whether e satisfies the filter.
func (f AuditFilter) Matches(e AuditEntry) bool {
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	if f.EntityKind != "" && e.EntityKind != f.EntityKind {
		return false
	}
	return true
}
