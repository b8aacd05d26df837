// Package authz holds the static role/resource/action permission matrix.
package authz

import "github.com/sarkar-crm/crm-service/internal/models"

type Resource string

const (
	ResourceCustomers   Resource = "customers"
	ResourceProducts    Resource = "products"
	ResourceSales       Resource = "sales"
	ResourceUsers       Resource = "users"
	ResourceFloors      Resource = "floors"
	ResourceCategories  Resource = "categories"
	ResourceApprovals   Resource = "approvals"
	ResourceEscalations Resource = "escalations"
	ResourceAuditLogs   Resource = "audit_logs"
	ResourceAnalytics   Resource = "analytics"
)

type Action string

const (
	ActionView          Action = "VIEW"
	ActionCreate        Action = "CREATE"
	ActionUpdate        Action = "UPDATE"
	ActionDelete        Action = "DELETE"
	ActionCreatePending Action = "CREATE_PENDING"
	ActionUpdatePending Action = "UPDATE_PENDING"
	ActionApprove       Action = "APPROVE"
	ActionAssign        Action = "ASSIGN"
)

// matrix is the full permission table. CREATE_PENDING / UPDATE_PENDING
// model "can request but not commit": the write is recorded as a PENDING
// approval instead of being applied directly.
var matrix = map[models.RoleType]map[Resource][]Action{
	models.RoleBusinessAdmin: {
		ResourceCustomers:   {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceProducts:    {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceSales:       {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceUsers:       {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceFloors:      {ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionAssign},
		ResourceCategories:  {ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ResourceApprovals:   {ActionView, ActionApprove},
		ResourceEscalations: {ActionView, ActionCreate, ActionUpdate, ActionAssign},
		ResourceAuditLogs:   {ActionView},
		ResourceAnalytics:   {ActionView},
	},
	models.RoleFloorManager: {
		ResourceCustomers:   {ActionView, ActionCreatePending, ActionUpdatePending},
		ResourceProducts:    {ActionView, ActionUpdatePending},
		ResourceSales:       {ActionView, ActionCreatePending, ActionUpdatePending},
		ResourceUsers:       {ActionView},
		ResourceFloors:      {ActionView, ActionUpdatePending},
		ResourceCategories:  {ActionView},
		ResourceApprovals:   {ActionView, ActionCreate},
		ResourceEscalations: {ActionView, ActionCreate, ActionUpdate},
		ResourceAnalytics:   {ActionView},
	},
	models.RoleSalesperson: {
		ResourceCustomers:   {ActionView, ActionCreate, ActionUpdate},
		ResourceProducts:    {ActionView},
		ResourceSales:       {ActionView, ActionCreate},
		ResourceFloors:      {ActionView},
		ResourceCategories:  {ActionView},
		ResourceEscalations: {ActionView, ActionCreate},
	},
}

// HasPermission is a pure lookup. Any role, resource or action not
// explicitly present in the matrix denies.
func HasPermission(role models.RoleType, resource Resource, action Action) bool {
	actions, ok := matrix[role][resource]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// MustForcePending reports whether this role commits the given resource
// write only through the approval queue.
func MustForcePending(role models.RoleType, resource Resource, write Action) bool {
	if HasPermission(role, resource, write) {
		return false
	}
	switch write {
	case ActionCreate:
		return HasPermission(role, resource, ActionCreatePending)
	case ActionUpdate:
		return HasPermission(role, resource, ActionUpdatePending)
	}
	return false
}
