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

// CatalogController groups the small floor / category / user surfaces.
type CatalogController struct {
	floorService    *services.FloorService
	categoryService *services.CategoryService
	userService     *services.UserService
	validate        *validator.Validate
}

func NewCatalogController(
	floorService *services.FloorService,
	categoryService *services.CategoryService,
	userService *services.UserService,
) *CatalogController {
	return &CatalogController{
		floorService:    floorService,
		categoryService: categoryService,
		userService:     userService,
		validate:        validator.New(),
	}
}

// GET /api/v1/floors
func (c *CatalogController) ListFloorsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceFloors, authz.ActionView) {
		return
	}
	floors, err := c.floorService.List(r.Context(), actor)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, floors)
}

// POST /api/v1/floors
func (c *CatalogController) CreateFloorHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceFloors, authz.ActionCreate) {
		return
	}

	var req dtos.CreateFloorRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	floor, err := c.floorService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, floor)
}

// POST /api/v1/floors/assign
func (c *CatalogController) AssignFloorHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !authz.HasPermission(actor.Role, authz.ResourceFloors, authz.ActionAssign) &&
		!authz.HasPermission(actor.Role, authz.ResourceFloors, authz.ActionUpdatePending) {
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden,
			"role may not assign floors", nil)
		return
	}

	var req dtos.AssignFloorRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	wf, err := c.floorService.Assign(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if wf != nil {
		respondPending(w, wf.ID)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "floor assigned"})
}

// GET /api/v1/categories
func (c *CatalogController) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceCategories, authz.ActionView) {
		return
	}
	categories, err := c.categoryService.List(r.Context(), actor)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// POST /api/v1/categories
func (c *CatalogController) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceCategories, authz.ActionCreate) {
		return
	}

	var req dtos.CreateCategoryRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	category, err := c.categoryService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// GET /api/v1/users
func (c *CatalogController) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceUsers, authz.ActionView) {
		return
	}

	page, size, offset := parseListQuery(r)
	users, total, err := c.userService.List(r.Context(), actor, size, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListResponse[*models.User]{
		Results: users, Page: page, Size: size, Total: total,
	})
}

// POST /api/v1/users
func (c *CatalogController) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceUsers, authz.ActionCreate) {
		return
	}

	var req dtos.CreateUserRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	user, err := c.userService.Create(r.Context(), actor, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}
