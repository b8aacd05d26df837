package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// ActionExecutor applies the deferred mutation carried by an approved
// request. Implementations must be safe to call from the resolution
// path; a returned error moves the approval to EXECUTION_FAILED.
type ActionExecutor interface {
	Execute(ctx context.Context, actor Actor, wf *models.ApprovalWorkflow) error
}

type actionExecutor struct {
	saleService     *SaleService
	customerService *CustomerService
	productService  *ProductService
	floorService    *FloorService
}

func NewActionExecutor(
	saleService *SaleService,
	customerService *CustomerService,
	productService *ProductService,
	floorService *FloorService,
) ActionExecutor {
	return &actionExecutor{
		saleService:     saleService,
		customerService: customerService,
		productService:  productService,
		floorService:    floorService,
	}
}

// Execute dispatches on the action type. The switch is exhaustive over
// models.ActionType; anything else is a programming error and fails the
// execution rather than being ignored.
func (e *actionExecutor) Execute(ctx context.Context, actor Actor, wf *models.ApprovalWorkflow) error {
	switch wf.ActionType {
	case models.ActionSaleCreate:
		var ch models.SaleChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode sale change: %w", err)
		}
		if ch.New == nil {
			return fmt.Errorf("sale create payload missing new state")
		}
		return e.saleService.commitCreate(ctx, actor, ch.New)

	case models.ActionSaleUpdate:
		var ch models.SaleChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode sale change: %w", err)
		}
		if ch.New == nil {
			return fmt.Errorf("sale update payload missing new state")
		}
		return e.saleService.commitUpdate(ctx, actor, ch.New)

	case models.ActionSaleDelete:
		var ch models.SaleChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode sale change: %w", err)
		}
		if ch.Old == nil {
			return fmt.Errorf("sale delete payload missing old state")
		}
		return e.saleService.commitDelete(ctx, actor, ch.Old)

	case models.ActionCustomerCreate:
		var ch models.CustomerChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode customer change: %w", err)
		}
		if ch.New == nil {
			return fmt.Errorf("customer create payload missing new state")
		}
		return e.customerService.commitCreate(ctx, actor, ch.New)

	case models.ActionCustomerUpdate:
		var ch models.CustomerChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode customer change: %w", err)
		}
		if ch.New == nil {
			return fmt.Errorf("customer update payload missing new state")
		}
		return e.customerService.commitUpdate(ctx, actor, ch.New)

	case models.ActionProductUpdate:
		var ch models.ProductChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode product change: %w", err)
		}
		if ch.New == nil {
			return fmt.Errorf("product update payload missing new state")
		}
		return e.productService.commitUpdate(ctx, actor, ch.New)

	case models.ActionDiscountApply:
		var ch models.DiscountChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode discount change: %w", err)
		}
		return e.saleService.commitDiscount(ctx, actor, ch)

	case models.ActionFloorAssignment:
		var ch models.FloorAssignmentChange
		if err := json.Unmarshal(wf.RequestData, &ch); err != nil {
			return fmt.Errorf("decode floor assignment: %w", err)
		}
		return e.floorService.commitAssignment(ctx, actor, ch)

	default:
		return fmt.Errorf("%w: %s", utils.ErrUnsupportedActionType, wf.ActionType)
	}
}
