package services

import (
	"encoding/json"
	"time"

	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/models"
)

// auditService records audit events to the structured log.
type auditService struct {
	now func() time.Time
}

// NewAuditService creates a new AuditServicer.
func NewAuditService() AuditServicer {
	return &auditService{now: time.Now}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	event := models.AuditEvent{
		Time:         s.now().UTC(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      "{}",
	}
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		} else {
			event.Changes = string(data)
		}
	}

	logger.Get().Infow("audit",
		"time", event.Time,
		"user_id", event.UserID,
		"action", event.Action,
		"resource_type", event.ResourceType,
		"resource_id", event.ResourceID,
		"ip_address", event.IPAddress,
		"changes", event.Changes,
	)
}
