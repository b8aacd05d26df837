package models

import (
	"time"

	"github.com/google/uuid"
)

type EscalationStatus string

const (
	EscalationOpen       EscalationStatus = "OPEN"
	EscalationInProgress EscalationStatus = "IN_PROGRESS"
	EscalationResolved   EscalationStatus = "RESOLVED"
	EscalationClosed     EscalationStatus = "CLOSED"
)

// CanAdvanceTo enforces the forward-only lifecycle
// OPEN → IN_PROGRESS → RESOLVED → CLOSED.
func (s EscalationStatus) CanAdvanceTo(target EscalationStatus) bool {
	order := map[EscalationStatus]int{
		EscalationOpen:       0,
		EscalationInProgress: 1,
		EscalationResolved:   2,
		EscalationClosed:     3,
	}
	from, okF := order[s]
	to, okT := order[target]
	return okF && okT && to == from+1
}

// Escalation is a standalone staff-raised issue, independent of the
// approval mechanism.
type Escalation struct {
	ID          uuid.UUID        `json:"id"`
	StoreID     uuid.UUID        `json:"store_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    PriorityType     `json:"priority"`
	Status      EscalationStatus `json:"status"`
	RequesterID uuid.UUID        `json:"requester_id"`
	AssigneeID  *uuid.UUID       `json:"assignee_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}
