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

type SaleController struct {
	saleService *services.SaleService
	validate    *validator.Validate
}

func NewSaleController(saleService *services.SaleService) *SaleController {
	return &SaleController{saleService: saleService, validate: validator.New()}
}

// GET /api/v1/sales
func (c *SaleController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceSales, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	sales, total, err := c.saleService.List(r.Context(), actor, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.Sale]{
		Results: sales, Page: page, Size: size, Total: total,
	})
}

// GET /api/v1/sales/{id}
func (c *SaleController) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceSales, authz.ActionView) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	sale, err := c.saleService.Get(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sale)
}

// POST /api/v1/sales
func (c *SaleController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceSales, authz.ActionCreate) {
		return
	}

	var req dtos.CreateSaleRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	sale, wf, err := c.saleService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, sale)
}

// PUT /api/v1/sales/{id}
func (c *SaleController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceSales, authz.ActionUpdate) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.UpdateSaleRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	sale, wf, err := c.saleService.Update(r.Context(), actor, id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sale)
}

// DELETE /api/v1/sales/{id}
func (c *SaleController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceSales, authz.ActionDelete) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.saleService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "sale deleted"})
}

// POST /api/v1/sales/{id}/discount
func (c *SaleController) ApplyDiscountHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceSales, authz.ActionUpdate) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.ApplyDiscountRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	sale, wf, err := c.saleService.ApplyDiscount(r.Context(), actor, id, req.DiscountPercentage)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sale)
}
