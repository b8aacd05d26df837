package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type AuditController struct {
	auditService *services.AuditService
	validate     *validator.Validate
}

func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{auditService: auditService, validate: validator.New()}
}

// GET /api/v1/audit-logs?user_id=&entity_type=&entity_id=&action=
func (c *AuditController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceAuditLogs, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	filter := repositories.AuditLogFilter{
		EntityType: models.AuditEntityType(r.URL.Query().Get("entity_type")),
		Action:     r.URL.Query().Get("action"),
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.UserID = &id
		}
	}
	if v := r.URL.Query().Get("entity_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.EntityID = &id
		}
	}

	entries, total, err := c.auditService.List(r.Context(), filter, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.AuditLog]{
		Results: entries, Page: page, Size: size, Total: total,
	})
}

// POST /api/v1/audit-logs — manual append, admin tooling.
func (c *AuditController) AppendHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceAuditLogs, authz.ActionView) {
		return
	}

	var req dtos.AppendAuditRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	entry := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		Action:     req.Action,
		EntityType: models.AuditEntityType(req.EntityType),
		EntityID:   req.EntityID,
		OldData:    req.OldData,
		NewData:    req.NewData,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
	}
	if err := c.auditService.Append(r.Context(), entry); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, entry)
}
