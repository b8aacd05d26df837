package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	workflows    *WorkflowService
}

func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	workflows *WorkflowService,
) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo, workflows: workflows}
}

func (s *ProductService) Create(ctx context.Context, actor Actor, req *dtos.CreateProductRequest) (*models.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || category.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "category not found", nil)
	}

	existing, err := s.productRepo.GetBySKU(ctx, actor.StoreID, req.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict,
			"a product with this SKU already exists", utils.ErrDuplicateRecord)
	}

	product := &models.Product{
		ID:            uuid.New(),
		StoreID:       actor.StoreID,
		CategoryID:    req.CategoryID,
		FloorID:       req.FloorID,
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		MetalType:     models.MetalType(req.MetalType),
		Purity:        req.Purity,
		WeightGrams:   req.WeightGrams,
		Price:         utils.RupeesToPaise(req.PriceRupees),
		StockQuantity: req.StockQuantity,
	}
	entry := actor.auditEntry(models.AuditProductCreated, models.EntityProduct, product.ID, nil, product)
	if err := s.productRepo.CreateWithAudit(ctx, product, entry); err != nil {
		return nil, duplicateAsConflict(err, "a product with this SKU already exists")
	}
	return product, nil
}

// Update defers to the approval queue when the price moves outside the
// allowed band, or when the caller may only request product changes.
func (s *ProductService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dtos.UpdateProductRequest) (*models.Product, *models.ApprovalWorkflow, error) {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if current.RowVersion != req.RowVersion {
		return nil, nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"product was modified by someone else", utils.ErrRowVersionConflict)
	}

	newPrice := utils.RupeesToPaise(req.PriceRupees)

	proposed := *current
	proposed.Name = req.Name
	proposed.Description = req.Description
	proposed.CategoryID = req.CategoryID
	proposed.FloorID = req.FloorID
	proposed.MetalType = models.MetalType(req.MetalType)
	proposed.Purity = req.Purity
	proposed.WeightGrams = req.WeightGrams
	proposed.Price = newPrice
	proposed.StockQuantity = req.StockQuantity

	data := ActionData{OldPricePaise: current.Price, NewPricePaise: newPrice}
	if RequiresApproval(models.ActionProductUpdate, data) ||
		authz.MustForcePending(actor.Role, authz.ResourceProducts, authz.ActionUpdate) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionProductUpdate,
			models.ProductChange{Old: current, New: &proposed},
			ApprovalPriority(models.ActionProductUpdate, data))
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	entry := actor.auditEntry(models.AuditProductUpdated, models.EntityProduct, id, current, &proposed)
	if err := s.productRepo.UpdateWithAudit(ctx, &proposed, entry); err != nil {
		return nil, nil, err
	}
	return &proposed, nil, nil
}

func (s *ProductService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	entry := actor.auditEntry(models.AuditProductDeleted, models.EntityProduct, current.ID, current, nil)
	return s.productRepo.SoftDeleteWithAudit(ctx, current.ID, entry)
}

func (s *ProductService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Product, error) {
	return s.getOwned(ctx, actor, id)
}

func (s *ProductService) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Product, int, error) {
	return s.productRepo.ListByStore(ctx, actor.StoreID, limit, offset)
}

// commitUpdate is the executor target for approved PRODUCT_UPDATE
// requests: the whole proposed state lands, not just the price.
func (s *ProductService) commitUpdate(ctx context.Context, actor Actor, p *models.Product) error {
	old, err := s.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "product not found", utils.ErrProductNotFound)
	}
	entry := actor.auditEntry(models.AuditProductUpdated, models.EntityProduct, p.ID, old, p)
	return s.productRepo.UpdateWithAudit(ctx, p, entry)
}

func (s *ProductService) getOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "product not found", utils.ErrProductNotFound)
	}
	return p, nil
}
