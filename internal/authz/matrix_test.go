package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/models"
)

func TestHasPermissionFailsClosed(t *testing.T) {
	require.False(t, authz.HasPermission("INTERN", authz.ResourceSales, authz.ActionView))
	require.False(t, authz.HasPermission(models.RoleSalesperson, "paychecks", authz.ActionView))
	require.False(t, authz.HasPermission(models.RoleSalesperson, authz.ResourceSales, "EXPORT"))
}

func TestSalespersonPermissions(t *testing.T) {
	role := models.RoleSalesperson

	require.True(t, authz.HasPermission(role, authz.ResourceSales, authz.ActionCreate))
	require.True(t, authz.HasPermission(role, authz.ResourceCustomers, authz.ActionCreate))
	require.False(t, authz.HasPermission(role, authz.ResourceSales, authz.ActionDelete))
	require.False(t, authz.HasPermission(role, authz.ResourceApprovals, authz.ActionApprove))
	require.False(t, authz.HasPermission(role, authz.ResourceUsers, authz.ActionCreate))
	require.False(t, authz.HasPermission(role, authz.ResourceFloors, authz.ActionAssign))
}

func TestFloorManagerWritesAreForcedPending(t *testing.T) {
	role := models.RoleFloorManager

	require.False(t, authz.HasPermission(role, authz.ResourceSales, authz.ActionCreate))
	require.True(t, authz.HasPermission(role, authz.ResourceSales, authz.ActionCreatePending))

	require.True(t, authz.MustForcePending(role, authz.ResourceSales, authz.ActionCreate))
	require.True(t, authz.MustForcePending(role, authz.ResourceProducts, authz.ActionUpdate))

	// Deletes are never forced into an approval request.
	require.False(t, authz.MustForcePending(role, authz.ResourceSales, authz.ActionDelete))
}

func TestBusinessAdminCommitsDirectly(t *testing.T) {
	role := models.RoleBusinessAdmin

	require.True(t, authz.HasPermission(role, authz.ResourceSales, authz.ActionDelete))
	require.True(t, authz.HasPermission(role, authz.ResourceApprovals, authz.ActionApprove))
	require.True(t, authz.HasPermission(role, authz.ResourceFloors, authz.ActionAssign))

	require.False(t, authz.MustForcePending(role, authz.ResourceSales, authz.ActionCreate))
}
