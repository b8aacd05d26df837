package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type EscalationController struct {
	escalationService *services.EscalationService
	validate          *validator.Validate
}

func NewEscalationController(escalationService *services.EscalationService) *EscalationController {
	return &EscalationController{escalationService: escalationService, validate: validator.New()}
}

// GET /api/v1/escalations?status=
func (c *EscalationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceEscalations, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	status := models.EscalationStatus(r.URL.Query().Get("status"))
	escalations, total, err := c.escalationService.List(r.Context(), actor, status, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.Escalation]{
		Results: escalations, Page: page, Size: size, Total: total,
	})
}

// POST /api/v1/escalations
func (c *EscalationController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceEscalations, authz.ActionCreate) {
		return
	}

	var req dtos.CreateEscalationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	esc, err := c.escalationService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, esc)
}

// PUT /api/v1/escalations/{id} — advance the lifecycle one step.
func (c *EscalationController) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceEscalations, authz.ActionUpdate) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.AdvanceEscalationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	esc, err := c.escalationService.Advance(r.Context(), actor, id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, esc)
}
