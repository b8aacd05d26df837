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

type CustomerController struct {
	customerService *services.CustomerService
	validate        *validator.Validate
}

func NewCustomerController(customerService *services.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService, validate: validator.New()}
}

// GET /api/v1/customers
func (c *CustomerController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceCustomers, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	customers, total, err := c.customerService.List(r.Context(), actor, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.Customer]{
		Results: customers, Page: page, Size: size, Total: total,
	})
}

// GET /api/v1/customers/{id}
func (c *CustomerController) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceCustomers, authz.ActionView) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	customer, err := c.customerService.Get(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, customer)
}

// POST /api/v1/customers
func (c *CustomerController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceCustomers, authz.ActionCreate) {
		return
	}

	var req dtos.CreateCustomerRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	customer, wf, err := c.customerService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, customer)
}

// PUT /api/v1/customers/{id}
func (c *CustomerController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceCustomers, authz.ActionUpdate) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.UpdateCustomerRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	customer, wf, err := c.customerService.Update(r.Context(), actor, id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, customer)
}

// DELETE /api/v1/customers/{id}
func (c *CustomerController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceCustomers, authz.ActionDelete) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.customerService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "customer deleted"})
}
