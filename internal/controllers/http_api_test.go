package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/controllers"
	"github.com/sarkar-crm/crm-service/internal/middleware"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/routes"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
)

func newRouter(env *testhelpers.Env) *mux.Router {
	saleController := controllers.NewSaleController(env.Sales)
	approvalController := controllers.NewApprovalController(env.Workflows)

	r := mux.NewRouter()
	r.HandleFunc(routes.SalesBase, saleController.ListHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.SalesBase, saleController.CreateHandler).Methods(http.MethodPost)
	r.HandleFunc(routes.SaleByID, saleController.GetHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.SaleByID, saleController.UpdateHandler).Methods(http.MethodPut)
	r.HandleFunc(routes.SaleByID, saleController.DeleteHandler).Methods(http.MethodDelete)
	r.HandleFunc(routes.ApprovalsBase, approvalController.ListHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.ApprovalsBase, approvalController.CreateHandler).Methods(http.MethodPost)
	r.HandleFunc(routes.ApprovalByID, approvalController.GetHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.ApprovalByID, approvalController.ResolveHandler).Methods(http.MethodPut)
	r.HandleFunc(routes.ApprovalResolve, approvalController.ResolveHandler).Methods(http.MethodPost)
	return r
}

// doAs issues a request with the identity the auth middleware would have
// stored for the given user. A nil user leaves the context bare.
func doAs(t *testing.T, router *mux.Router, user *models.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, user.ID)
		ctx = context.WithValue(ctx, middleware.ContextKeyStoreID, user.StoreID)
		ctx = context.WithValue(ctx, middleware.ContextKeyRole, user.Role)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func saleBody(env *testhelpers.Env, quantity int) map[string]any {
	return map[string]any{
		"customer_id":    env.Customer.ID,
		"product_id":     env.Product.ID,
		"quantity":       quantity,
		"unit_price":     20000.0,
		"payment_method": "CARD",
	}
}

func TestCreateSaleRequiresIdentity(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, nil, http.MethodPost, routes.SalesBase, saleBody(env, 1))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeBody(t, rec)["code"])
}

func TestCreateSaleRejectsMalformedJSON(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	req := httptest.NewRequest(http.MethodPost, routes.SalesBase, bytes.NewBufferString("{not json"))
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, env.Seller.ID)
	ctx = context.WithValue(ctx, middleware.ContextKeyStoreID, env.Seller.StoreID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, env.Seller.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_payload", decodeBody(t, rec)["code"])
}

func TestCreateSaleRejectsInvalidFields(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	body := saleBody(env, 1)
	body["payment_method"] = "BARTER"
	body["quantity"] = 0

	rec := doAs(t, router, env.Seller, http.MethodPost, routes.SalesBase, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, "validation_error", resp["code"])
	require.NotEmpty(t, resp["details"])
}

func TestSalespersonCannotDeleteSale(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, env.Seller, http.MethodPost, routes.SalesBase, saleBody(env, 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := decodeBody(t, rec)["id"].(string)

	rec = doAs(t, router, env.Seller, http.MethodDelete, "/api/v1/sales/"+saleID, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeBody(t, rec)["code"])

	rec = doAs(t, router, env.Admin, http.MethodDelete, "/api/v1/sales/"+saleID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSaleRejectsMalformedID(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, env.Admin, http.MethodGet, "/api/v1/sales/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_payload", decodeBody(t, rec)["code"])
}

func TestUnderThresholdSaleCommitsWith201(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, env.Seller, http.MethodPost, routes.SalesBase, saleBody(env, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, "CARD", resp["payment_method"])
	require.EqualValues(t, 40000_00, resp["total_amount"])
	require.NotEmpty(t, resp["id"])
}

func TestOverThresholdSaleGoesThroughApprovalQueue(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	// 3 x 20000 rupees crosses the high-value line.
	rec := doAs(t, router, env.Seller, http.MethodPost, routes.SalesBase, saleBody(env, 3))
	require.Equal(t, http.StatusAccepted, rec.Code)

	pending := decodeBody(t, rec)
	require.Equal(t, "PENDING_APPROVAL", pending["status"])
	approvalID := pending["approval_id"].(string)
	require.NotEmpty(t, approvalID)

	resolvePath := fmt.Sprintf("/api/v1/approvals/%s/resolve", approvalID)

	// The queue is visible to the approver before anything commits.
	rec = doAs(t, router, env.Admin, http.MethodGet, routes.ApprovalsBase+"?status=PENDING", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, decodeBody(t, rec)["total"])

	// A salesperson cannot resolve their own request.
	rec = doAs(t, router, env.Seller, http.MethodPost, resolvePath, map[string]any{"action": "APPROVED"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doAs(t, router, env.Admin, http.MethodPost, resolvePath, map[string]any{"action": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, string(models.ApprovalApproved), decodeBody(t, rec)["status"])

	// Resolving twice hits the status guard; the bare PUT form of the
	// endpoint behaves the same as /resolve.
	rec = doAs(t, router, env.Admin, http.MethodPut, "/api/v1/approvals/"+approvalID, map[string]any{"action": "REJECTED"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "wrong_status", decodeBody(t, rec)["code"])
}

func TestManagerFilesApprovalDirectly(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	body := map[string]any{
		"action_type":  "SALE_DELETE",
		"request_data": map[string]any{"sale_id": uuid.New()},
		"priority":     "HIGH",
	}

	rec := doAs(t, router, env.Seller, http.MethodPost, routes.ApprovalsBase, body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doAs(t, router, env.Manager, http.MethodPost, routes.ApprovalsBase, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody(t, rec)
	require.Equal(t, string(models.ApprovalPending), resp["status"])
	require.Equal(t, "HIGH", resp["priority"])

	body["action_type"] = "SALE_TELEPORT"
	rec = doAs(t, router, env.Manager, http.MethodPost, routes.ApprovalsBase, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_error", decodeBody(t, rec)["code"])
}

func TestResolveRejectsUnknownAction(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, env.Admin, http.MethodPost,
		fmt.Sprintf("/api/v1/approvals/%s/resolve", uuid.New()),
		map[string]any{"action": "CANCELLED"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_error", decodeBody(t, rec)["code"])
}

func TestGetApprovalHidesOtherStores(t *testing.T) {
	env := testhelpers.NewEnv(t)
	router := newRouter(env)

	rec := doAs(t, router, env.Seller, http.MethodPost, routes.SalesBase, saleBody(env, 3))
	require.Equal(t, http.StatusAccepted, rec.Code)
	approvalID := decodeBody(t, rec)["approval_id"].(string)

	outsider := &models.User{ID: uuid.New(), StoreID: uuid.New(), Role: models.RoleBusinessAdmin}
	rec = doAs(t, router, outsider, http.MethodGet, "/api/v1/approvals/"+approvalID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doAs(t, router, env.Admin, http.MethodGet, "/api/v1/approvals/"+approvalID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
