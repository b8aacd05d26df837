package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// createPendingSale routes an over-threshold sale through the approval
// queue and returns the recorded workflow.
func createPendingSale(t *testing.T, env *testhelpers.Env) *models.ApprovalWorkflow {
	t.Helper()
	seller := env.ActorFor(env.Seller)
	sale, wf, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        3,
		UnitPriceRupees: 20000, // 60,000 total, above the 50,000 threshold
		PaymentMethod:   "CARD",
	})
	require.NoError(t, err)
	require.Nil(t, sale, "over-threshold sale must not commit directly")
	require.NotNil(t, wf)
	return wf
}

func TestOverThresholdSaleDefersWithMediumPriority(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)

	require.Equal(t, models.ApprovalPending, wf.Status)
	require.Equal(t, models.ActionSaleCreate, wf.ActionType)
	require.Equal(t, models.PriorityMedium, wf.Priority)
	require.Equal(t, env.Seller.ID, wf.RequesterID)
	require.Empty(t, env.Data.Sales, "no sale row before approval")
	require.Equal(t, 10, env.Product.StockQuantity, "stock untouched before approval")

	// The request payload must round-trip the full proposed sale.
	var change models.SaleChange
	require.NoError(t, json.Unmarshal(wf.RequestData, &change))
	require.Nil(t, change.Old)
	require.NotNil(t, change.New)
	require.Equal(t, 3, change.New.Quantity)
	require.Equal(t, int64(60000_00), change.New.TotalAmount)

	require.Contains(t, env.Data.AuditActions(), "SALE_CREATE_APPROVAL_REQUESTED")
}

func TestApproveExecutesDeferredSale(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	resolved, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalApproved, resolved.Status)
	require.NotNil(t, resolved.ApprovedAt)
	require.Equal(t, env.Admin.ID, *resolved.ApproverID)

	require.Len(t, env.Data.Sales, 1)
	require.Equal(t, 7, env.Product.StockQuantity)
	require.Equal(t, int64(60000_00), env.Customer.TotalPurchases)

	actions := env.Data.AuditActions()
	require.Contains(t, actions, models.AuditApprovalApproved)
	require.Contains(t, actions, models.AuditSaleCreated)
}

func TestResolutionAuditCarriesPriorState(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	_, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	var entry *models.AuditLog
	for _, e := range env.Data.AuditLog {
		if e.Action == models.AuditApprovalApproved {
			entry = e
		}
	}
	require.NotNil(t, entry)
	require.NotNil(t, entry.OldData, "resolution audit must carry the pre-resolution snapshot")
	require.NotNil(t, entry.NewData)

	var before, after models.ApprovalWorkflow
	require.NoError(t, json.Unmarshal(*entry.OldData, &before))
	require.NoError(t, json.Unmarshal(*entry.NewData, &after))
	require.Equal(t, models.ApprovalPending, before.Status)
	require.Nil(t, before.ApproverID)
	require.Equal(t, models.ApprovalApproved, after.Status)
	require.Equal(t, env.Admin.ID, *after.ApproverID)
}

func TestRejectLeavesSaleUncommitted(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	notes := "price not negotiated"
	resolved, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalRejected, &notes)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalRejected, resolved.Status)
	require.Equal(t, &notes, resolved.ApprovalNotes)

	require.Empty(t, env.Data.Sales)
	require.Equal(t, 10, env.Product.StockQuantity)
	require.Contains(t, env.Data.AuditActions(), models.AuditApprovalRejected)
}

func TestResolveUnknownApprovalIs404(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	_, err := env.Workflows.Resolve(context.Background(), admin, uuid.New(), models.ApprovalApproved, nil)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestResolveToCancelledIsRejected(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	_, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalCancelled, nil)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)

	got, err := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalPending, got.Status)
}

func TestDoubleResolveConflicts(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	_, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalRejected, nil)
	require.NoError(t, err)

	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Equal(t, utils.ErrCodeWrongStatus, appErr.Code)
}

func TestUnknownApproverLeavesRequestUntouched(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	auditBefore := len(env.Data.AuditLog)

	ghost := env.ActorFor(env.Admin)
	ghost.UserID = uuid.New()

	_, err := env.Workflows.Resolve(context.Background(), ghost, wf.ID, models.ApprovalApproved, nil)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
	require.ErrorIs(t, err, utils.ErrApproverNotFound)

	got, getErr := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, getErr)
	require.Equal(t, models.ApprovalPending, got.Status)
	require.Nil(t, got.ApproverID)
	require.Len(t, env.Data.AuditLog, auditBefore, "no partial audit write")
}

func TestExecutionFailureCompensates(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)

	// Product vanishes between request and approval, so the deferred
	// stock adjustment cannot be applied.
	delete(env.Data.Products, env.Product.ID)

	resolved, err := env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	require.Equal(t, utils.ErrCodeExternalService, appErr.Code)
	require.Equal(t, models.ApprovalExecutionFailed, resolved.Status)

	got, getErr := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, getErr)
	require.Equal(t, models.ApprovalExecutionFailed, got.Status)
	require.Empty(t, env.Data.Sales)

	actions := env.Data.AuditActions()
	require.Contains(t, actions, models.AuditApprovalApproved)
	require.Contains(t, actions, models.AuditApprovalExecutionFailed)
}

func TestListFiltersByStatus(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf1 := createPendingSale(t, env)
	admin := env.ActorFor(env.Admin)
	_, err := env.Workflows.Resolve(context.Background(), admin, wf1.ID, models.ApprovalRejected, nil)
	require.NoError(t, err)
	wf2 := createPendingSale(t, env)

	pending, total, err := env.Workflows.List(context.Background(),
		repositories.ApprovalWorkflowFilter{StoreID: &env.StoreID, Status: models.ApprovalPending}, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, wf2.ID, pending[0].ID)
}
