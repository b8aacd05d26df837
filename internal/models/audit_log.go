package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditEntityType string

const (
	EntityCustomer   AuditEntityType = "CUSTOMER"
	EntityProduct    AuditEntityType = "PRODUCT"
	EntitySale       AuditEntityType = "SALE"
	EntityUser       AuditEntityType = "USER"
	EntityFloor      AuditEntityType = "FLOOR"
	EntityApproval   AuditEntityType = "APPROVAL"
	EntityEscalation AuditEntityType = "ESCALATION"
)

// Audit action tags. Direct writes use <ENTITY>_<VERB>D, deferred writes
// use <ENTITY>_<ACTION>_APPROVAL_REQUESTED, approver actions use
// APPROVAL_<RESOLUTION>.
const (
	AuditSaleCreated     = "SALE_CREATED"
	AuditSaleUpdated     = "SALE_UPDATED"
	AuditSaleDeleted     = "SALE_DELETED"
	AuditCustomerCreated = "CUSTOMER_CREATED"
	AuditCustomerUpdated = "CUSTOMER_UPDATED"
	AuditCustomerDeleted = "CUSTOMER_DELETED"
	AuditProductCreated  = "PRODUCT_CREATED"
	AuditProductUpdated  = "PRODUCT_UPDATED"
	AuditProductDeleted  = "PRODUCT_DELETED"
	AuditFloorAssigned   = "FLOOR_ASSIGNED"

	AuditApprovalApproved        = "APPROVAL_APPROVED"
	AuditApprovalRejected        = "APPROVAL_REJECTED"
	AuditApprovalEscalated       = "APPROVAL_ESCALATED"
	AuditApprovalExecutionFailed = "APPROVAL_EXECUTION_FAILED"
	AuditApprovalPriorityBumped  = "APPROVAL_PRIORITY_BUMPED"

	AuditEscalationCreated = "ESCALATION_CREATED"
	AuditEscalationUpdated = "ESCALATION_UPDATED"
)

// ApprovalRequestedAction builds the <ACTION>_APPROVAL_REQUESTED tag.
func ApprovalRequestedAction(at ActionType) string {
	return string(at) + "_APPROVAL_REQUESTED"
}

// AuditLog is an append-only record of who did what to which entity.
type AuditLog struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Action     string           `json:"action"`
	EntityType AuditEntityType  `json:"entity_type"`
	EntityID   uuid.UUID        `json:"entity_id"`
	OldData    *json.RawMessage `json:"old_data,omitempty"`
	NewData    *json.RawMessage `json:"new_data,omitempty"`
	IPAddress  *string          `json:"ip_address,omitempty"`
	UserAgent  *string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
