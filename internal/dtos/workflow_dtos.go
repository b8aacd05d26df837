package dtos

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ----------------------
// Requests
// ----------------------

// CreateApprovalRequest files a pending request directly, outside the
// entity endpoints. The request_data payload is stored verbatim and
// interpreted by the executor for the given action type.
type CreateApprovalRequest struct {
	ActionType  string          `json:"action_type" validate:"required,oneof=CUSTOMER_CREATE CUSTOMER_UPDATE SALE_CREATE SALE_UPDATE SALE_DELETE PRODUCT_UPDATE DISCOUNT_APPLY FLOOR_ASSIGNMENT"`
	RequestData json.RawMessage `json:"request_data" validate:"required"`
	Priority    string          `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// ResolveApprovalRequest moves a PENDING approval into a terminal
// status. Action is the target status, not a verb.
type ResolveApprovalRequest struct {
	Action string  `json:"action" validate:"required,oneof=APPROVED REJECTED ESCALATED"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type CreateEscalationRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"required,min=1,max=5000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// AdvanceEscalationRequest moves an escalation one lifecycle step
// forward (OPEN → IN_PROGRESS → RESOLVED → CLOSED).
type AdvanceEscalationRequest struct {
	Status     string     `json:"status" validate:"required,oneof=IN_PROGRESS RESOLVED CLOSED"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
}

// AppendAuditRequest is the manual audit-append endpoint (admin
// tooling). Normal audit entries are written by the services.
type AppendAuditRequest struct {
	Action     string           `json:"action" validate:"required,min=1,max=100"`
	EntityType string           `json:"entity_type" validate:"required,oneof=CUSTOMER PRODUCT SALE USER FLOOR APPROVAL ESCALATION"`
	EntityID   uuid.UUID        `json:"entity_id" validate:"required"`
	OldData    *json.RawMessage `json:"old_data,omitempty"`
	NewData    *json.RawMessage `json:"new_data,omitempty"`
}
