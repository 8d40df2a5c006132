package domain

import "time"

// AuditEntry records one field-level change. Entries are never modified.
type AuditEntry struct {
	ID         string
	EntityType EntityType
	EntityID   string
	Field      string
	OldValue   string
	NewValue   string
	ChangedBy  string
	ChangedAt  time.Time
}

// ArchiveEntry is a snapshot of an action taken when it was completed,
// archived or deleted.
type ArchiveEntry struct {
	ID     string
	Reason ArchiveReason
	Action Action
	At     time.Time
	By     string
}
