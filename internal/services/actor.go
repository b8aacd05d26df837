package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/models"
)

// Actor identifies the authenticated caller for audit purposes. IP and
// UserAgent come off the HTTP request when present.
type Actor struct {
	UserID    uuid.UUID
	StoreID   uuid.UUID
	Role      models.RoleType
	IP        *string
	UserAgent *string
}

// auditEntry builds an audit row stamped with the actor's identity.
func (a Actor) auditEntry(action string, entityType models.AuditEntityType, entityID uuid.UUID, oldData, newData any) *models.AuditLog {
	e := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     a.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  a.IP,
		UserAgent:  a.UserAgent,
	}
	if oldData != nil {
		if b, err := json.Marshal(oldData); err == nil {
			raw := json.RawMessage(b)
			e.OldData = &raw
		}
	}
	if newData != nil {
		if b, err := json.Marshal(newData); err == nil {
			raw := json.RawMessage(b)
			e.NewData = &raw
		}
	}
	return e
}
