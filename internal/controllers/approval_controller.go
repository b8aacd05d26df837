package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type ApprovalController struct {
	workflowService *services.WorkflowService
	validate        *validator.Validate
}

func NewApprovalController(workflowService *services.WorkflowService) *ApprovalController {
	return &ApprovalController{workflowService: workflowService, validate: validator.New()}
}

// GET /api/v1/approvals?status=&action_type=
func (c *ApprovalController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceApprovals, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	filter := repositories.ApprovalWorkflowFilter{
		StoreID:    &actor.StoreID,
		Status:     models.ApprovalStatus(r.URL.Query().Get("status")),
		ActionType: models.ActionType(r.URL.Query().Get("action_type")),
	}
	approvals, total, err := c.workflowService.List(r.Context(), filter, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.ApprovalWorkflow]{
		Results: approvals, Page: page, Size: size, Total: total,
	})
}

// GET /api/v1/approvals/{id}
func (c *ApprovalController) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceApprovals, authz.ActionView) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	wf, err := c.workflowService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf.StoreID != actor.StoreID {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "approval not found", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, wf)
}

// POST /api/v1/approvals — file a pending request directly, without
// going through an entity endpoint.
func (c *ApprovalController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceApprovals, authz.ActionCreate) {
		return
	}

	var req dtos.CreateApprovalRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	priority := models.PriorityType(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	wf, err := c.workflowService.CreatePending(r.Context(), actor, models.ActionType(req.ActionType), req.RequestData, priority)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, wf)
}

// PUT /api/v1/approvals/{id} — resolve a pending request.
func (c *ApprovalController) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceApprovals, authz.ActionApprove) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.ResolveApprovalRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	wf, err := c.workflowService.Resolve(r.Context(), actor, id, models.ApprovalStatus(req.Action), req.Notes)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, wf)
}
