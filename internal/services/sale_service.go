package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type SaleService struct {
	saleRepo     repositories.SaleRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	workflows    *WorkflowService
}

func NewSaleService(
	saleRepo repositories.SaleRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	workflows *WorkflowService,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		workflows:    workflows,
	}
}

// Create records a sale, or queues it for approval when the amount is
// over threshold or the caller's role may only request the write. The
// returned workflow is non-nil exactly when the sale was deferred.
func (s *SaleService) Create(ctx context.Context, actor Actor, req *dtos.CreateSaleRequest) (*models.Sale, *models.ApprovalWorkflow, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || product.StoreID != actor.StoreID {
		return nil, nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "product not found", utils.ErrProductNotFound)
	}
	if product.StockQuantity < req.Quantity {
		return nil, nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict,
			fmt.Sprintf("only %d units in stock", product.StockQuantity), nil)
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil || customer.StoreID != actor.StoreID {
		return nil, nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "customer not found", utils.ErrCustomerNotFound)
	}

	sale := &models.Sale{
		ID:                 uuid.New(),
		StoreID:            actor.StoreID,
		CustomerID:         req.CustomerID,
		ProductID:          req.ProductID,
		SalespersonID:      actor.UserID,
		Quantity:           req.Quantity,
		UnitPrice:          utils.RupeesToPaise(req.UnitPriceRupees),
		DiscountPercentage: req.DiscountPercentage,
		PaymentMethod:      models.PaymentMethodType(req.PaymentMethod),
		SaleDate:           time.Now().UTC(),
	}
	sale.TotalAmount = sale.ComputeTotal()

	data := ActionData{AmountPaise: sale.TotalAmount}
	if RequiresApproval(models.ActionSaleCreate, data) ||
		authz.MustForcePending(actor.Role, authz.ResourceSales, authz.ActionCreate) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionSaleCreate,
			models.SaleChange{New: sale}, ApprovalPriority(models.ActionSaleCreate, data))
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	if err := s.commitCreate(ctx, actor, sale); err != nil {
		return nil, nil, err
	}
	return sale, nil, nil
}

// Update re-prices an existing sale, deferring over-threshold changes.
func (s *SaleService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dtos.UpdateSaleRequest) (*models.Sale, *models.ApprovalWorkflow, error) {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if current.RowVersion != req.RowVersion {
		return nil, nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"sale was modified by someone else", utils.ErrRowVersionConflict)
	}

	proposed := *current
	proposed.Quantity = req.Quantity
	proposed.UnitPrice = utils.RupeesToPaise(req.UnitPriceRupees)
	proposed.DiscountPercentage = req.DiscountPercentage
	proposed.PaymentMethod = models.PaymentMethodType(req.PaymentMethod)
	proposed.TotalAmount = proposed.ComputeTotal()

	data := ActionData{AmountPaise: proposed.TotalAmount}
	if RequiresApproval(models.ActionSaleUpdate, data) ||
		authz.MustForcePending(actor.Role, authz.ResourceSales, authz.ActionUpdate) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionSaleUpdate,
			models.SaleChange{Old: current, New: &proposed}, ApprovalPriority(models.ActionSaleUpdate, data))
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	if err := s.commitUpdate(ctx, actor, &proposed); err != nil {
		return nil, nil, err
	}
	return &proposed, nil, nil
}

// Delete soft-deletes a sale. Only admins hold sales DELETE, so this
// path never defers; the permission check lives in the controller.
func (s *SaleService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.commitDelete(ctx, actor, current)
}

// ApplyDiscount adjusts the discount on a sale; above the cap it queues
// as DISCOUNT_APPLY.
func (s *SaleService) ApplyDiscount(ctx context.Context, actor Actor, id uuid.UUID, pct float64) (*models.Sale, *models.ApprovalWorkflow, error) {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	change := models.DiscountChange{SaleID: id, DiscountPercentage: pct}
	if RequiresApproval(models.ActionDiscountApply, ActionData{DiscountPercentage: pct}) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionDiscountApply,
			change, ApprovalPriority(models.ActionDiscountApply, ActionData{}))
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	if err := s.commitDiscount(ctx, actor, change); err != nil {
		return nil, nil, err
	}
	sale, err := s.getOwned(ctx, actor, current.ID)
	return sale, nil, err
}

func (s *SaleService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Sale, error) {
	return s.getOwned(ctx, actor, id)
}

func (s *SaleService) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Sale, int, error) {
	return s.saleRepo.ListByStore(ctx, actor.StoreID, limit, offset)
}

// ── commit paths (direct writes and executor targets) ───────────────────

func (s *SaleService) commitCreate(ctx context.Context, actor Actor, sale *models.Sale) error {
	if err := s.productRepo.AdjustStock(ctx, sale.ProductID, -sale.Quantity); err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	entry := actor.auditEntry(models.AuditSaleCreated, models.EntitySale, sale.ID, nil, sale)
	if err := s.saleRepo.CreateWithAudit(ctx, sale, entry); err != nil {
		// Put the reserved units back; the sale row never landed.
		if restoreErr := s.productRepo.AdjustStock(ctx, sale.ProductID, sale.Quantity); restoreErr != nil {
			utils.Logger.WithError(restoreErr).WithField("product_id", sale.ProductID).
				Error("Failed to restore stock after sale insert failure")
		}
		return err
	}

	return s.customerRepo.UpdateWithRetry(ctx, sale.CustomerID, func(c *models.Customer) error {
		c.TotalPurchases += sale.TotalAmount
		return nil
	})
}

func (s *SaleService) commitUpdate(ctx context.Context, actor Actor, sale *models.Sale) error {
	old, err := s.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "sale not found", utils.ErrSaleNotFound)
	}
	entry := actor.auditEntry(models.AuditSaleUpdated, models.EntitySale, sale.ID, old, sale)
	if err := s.saleRepo.UpdateWithAudit(ctx, sale, entry); err != nil {
		return err
	}

	if delta := sale.TotalAmount - old.TotalAmount; delta != 0 {
		return s.customerRepo.UpdateWithRetry(ctx, sale.CustomerID, func(c *models.Customer) error {
			c.TotalPurchases += delta
			return nil
		})
	}
	return nil
}

func (s *SaleService) commitDelete(ctx context.Context, actor Actor, sale *models.Sale) error {
	entry := actor.auditEntry(models.AuditSaleDeleted, models.EntitySale, sale.ID, sale, nil)
	if err := s.saleRepo.SoftDeleteWithAudit(ctx, sale.ID, entry); err != nil {
		return err
	}
	if err := s.productRepo.AdjustStock(ctx, sale.ProductID, sale.Quantity); err != nil {
		utils.Logger.WithError(err).WithField("product_id", sale.ProductID).
			Warn("Could not restock units for deleted sale")
	}
	return s.customerRepo.UpdateWithRetry(ctx, sale.CustomerID, func(c *models.Customer) error {
		c.TotalPurchases -= sale.TotalAmount
		if c.TotalPurchases < 0 {
			c.TotalPurchases = 0
		}
		return nil
	})
}

func (s *SaleService) commitDiscount(ctx context.Context, actor Actor, ch models.DiscountChange) error {
	old, err := s.saleRepo.GetByID(ctx, ch.SaleID)
	if err != nil {
		return err
	}
	if old == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "sale not found", utils.ErrSaleNotFound)
	}

	updated := *old
	updated.DiscountPercentage = ch.DiscountPercentage
	updated.TotalAmount = updated.ComputeTotal()
	return s.commitUpdate(ctx, actor, &updated)
}

func (s *SaleService) getOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "sale not found", utils.ErrSaleNotFound)
	}
	return sale, nil
}
