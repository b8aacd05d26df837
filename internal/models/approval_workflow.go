package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionCustomerCreate  ActionType = "CUSTOMER_CREATE"
	ActionCustomerUpdate  ActionType = "CUSTOMER_UPDATE"
	ActionSaleCreate      ActionType = "SALE_CREATE"
	ActionSaleUpdate      ActionType = "SALE_UPDATE"
	ActionSaleDelete      ActionType = "SALE_DELETE"
	ActionProductUpdate   ActionType = "PRODUCT_UPDATE"
	ActionDiscountApply   ActionType = "DISCOUNT_APPLY"
	ActionFloorAssignment ActionType = "FLOOR_ASSIGNMENT"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
	// ApprovalEscalated is reached by an approver action or by the SLA
	// sweeper when a request sits pending past twice its window.
	ApprovalEscalated ApprovalStatus = "ESCALATED"
	// ApprovalCancelled is declared for forward compatibility with
	// requester withdrawal; no transition currently produces it.
	ApprovalCancelled ApprovalStatus = "CANCELLED"
	// ApprovalExecutionFailed records an approved request whose deferred
	// mutation could not be applied. System-set, terminal.
	ApprovalExecutionFailed ApprovalStatus = "EXECUTION_FAILED"
)

// IsTerminal reports whether no further approver action is allowed.
func (s ApprovalStatus) IsTerminal() bool {
	return s != ApprovalPending
}

// ValidResolution reports whether an approver may move a PENDING request
// into the given status.
func ValidResolution(target ApprovalStatus) bool {
	switch target {
	case ApprovalApproved, ApprovalRejected, ApprovalEscalated:
		return true
	default:
		return false
	}
}

type PriorityType string

const (
	PriorityLow    PriorityType = "LOW"
	PriorityMedium PriorityType = "MEDIUM"
	PriorityHigh   PriorityType = "HIGH"
	PriorityUrgent PriorityType = "URGENT"
)

// Bump raises the priority one band, capped at URGENT.
func (p PriorityType) Bump() PriorityType {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityUrgent
	}
}

// ApprovalWorkflow is a deferred mutation awaiting sign-off. RequestData
// holds the typed change payload (see the *Change structs below) as JSONB.
// Rows are never physically deleted.
type ApprovalWorkflow struct {
	ID            uuid.UUID       `json:"id"`
	StoreID       uuid.UUID       `json:"store_id"`
	ActionType    ActionType      `json:"action_type"`
	RequesterID   uuid.UUID       `json:"requester_id"`
	ApproverID    *uuid.UUID      `json:"approver_id,omitempty"`
	Status        ApprovalStatus  `json:"status"`
	RequestData   json.RawMessage `json:"request_data"`
	ApprovalNotes *string         `json:"approval_notes,omitempty"`
	Priority      PriorityType    `json:"priority"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
}

// ── request_data payloads ────────────────────────────────────────────────

// SaleChange captures a proposed sale mutation. Old is nil on create;
// New is nil on delete.
type SaleChange struct {
	Old *Sale `json:"old,omitempty"`
	New *Sale `json:"new,omitempty"`
}

// CustomerChange captures a proposed customer mutation.
type CustomerChange struct {
	Old *Customer `json:"old,omitempty"`
	New *Customer `json:"new,omitempty"`
}

// ProductChange captures a proposed product mutation.
type ProductChange struct {
	Old *Product `json:"old,omitempty"`
	New *Product `json:"new,omitempty"`
}

// DiscountChange applies a discount to an existing sale.
type DiscountChange struct {
	SaleID             uuid.UUID `json:"sale_id"`
	DiscountPercentage float64   `json:"discount_percentage"`
}

// FloorAssignmentChange moves a user onto a floor.
type FloorAssignmentChange struct {
	UserID  uuid.UUID `json:"user_id"`
	FloorID uuid.UUID `json:"floor_id"`
}
