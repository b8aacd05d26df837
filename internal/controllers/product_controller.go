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

type ProductController struct {
	productService *services.ProductService
	validate       *validator.Validate
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService, validate: validator.New()}
}

// GET /api/v1/products
func (c *ProductController) ListHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceProducts, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	products, total, err := c.productService.List(r.Context(), actor, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.Product]{
		Results: products, Page: page, Size: size, Total: total,
	})
}

// GET /api/v1/products/{id}
func (c *ProductController) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceProducts, authz.ActionView) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	product, err := c.productService.Get(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// POST /api/v1/products
func (c *ProductController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceProducts, authz.ActionCreate) {
		return
	}

	var req dtos.CreateProductRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	product, err := c.productService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// PUT /api/v1/products/{id}
func (c *ProductController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requireWrite(w, actor, authz.ResourceProducts, authz.ActionUpdate) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.UpdateProductRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	product, wf, err := c.productService.Update(r.Context(), actor, id, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/products/{id}
func (c *ProductController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceProducts, authz.ActionDelete) {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.productService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "product deleted"})
}
