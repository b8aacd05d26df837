package services

import (
	"time"

	"github.com/sarkar-crm/crm-service/internal/constants"
	"github.com/sarkar-crm/crm-service/internal/models"
)

// ActionData carries the facts the threshold rules look at. Callers fill
// only the fields relevant to the action type; zero values are ignored.
type ActionData struct {
	AmountPaise        int64
	DiscountPercentage float64
	OldPricePaise      int64
	NewPricePaise      int64
	CustomerValue      models.CustomerValueType
}

// RequiresApproval applies the business thresholds:
//
//	SALE_CREATE / SALE_UPDATE  amount above the sale threshold
//	DISCOUNT_APPLY             discount above the percentage cap
//	PRODUCT_UPDATE             price moved more than the allowed band
//	CUSTOMER_UPDATE            high-value customers only
//
// All other action types pass: role-based forcing (a manager who may
// only request, not commit) is the permission matrix's job, not this
// function's.
func RequiresApproval(at models.ActionType, data ActionData) bool {
	switch at {
	case models.ActionSaleCreate, models.ActionSaleUpdate:
		return data.AmountPaise > constants.SaleApprovalThresholdPaise
	case models.ActionDiscountApply:
		return data.DiscountPercentage > constants.DiscountApprovalThresholdPct
	case models.ActionProductUpdate:
		if data.OldPricePaise == 0 {
			return data.NewPricePaise != 0
		}
		diff := data.NewPricePaise - data.OldPricePaise
		if diff < 0 {
			diff = -diff
		}
		return float64(diff)*100 > constants.PriceChangeApprovalPct*float64(data.OldPricePaise)
	case models.ActionCustomerUpdate:
		return data.CustomerValue == models.CustomerValueHighValue
	default:
		return false
	}
}

// ApprovalPriority bands SALE_CREATE by amount; everything else defaults
// to MEDIUM unless the caller supplied a priority of its own.
func ApprovalPriority(at models.ActionType, data ActionData) models.PriorityType {
	switch at {
	case models.ActionSaleCreate, models.ActionSaleUpdate:
		switch {
		case data.AmountPaise > constants.SaleUrgentAbovePaise:
			return models.PriorityUrgent
		case data.AmountPaise > constants.SaleHighAbovePaise:
			return models.PriorityHigh
		default:
			return models.PriorityMedium
		}
	default:
		return models.PriorityMedium
	}
}

// SLAWindow is how long a request may sit PENDING in each band before
// the sweeper bumps its priority. Twice the window auto-escalates.
func SLAWindow(p models.PriorityType) time.Duration {
	switch p {
	case models.PriorityUrgent:
		return constants.SLAUrgent
	case models.PriorityHigh:
		return constants.SLAHigh
	case models.PriorityMedium:
		return constants.SLAMedium
	default:
		return constants.SLALow
	}
}
