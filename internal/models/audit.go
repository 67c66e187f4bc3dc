package models

import "time"

// AuditEvent records a change a user made to their data.
type AuditEvent struct {
	Time         time.Time
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      string
}
