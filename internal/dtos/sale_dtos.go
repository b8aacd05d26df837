package dtos

import "github.com/google/uuid"

// ----------------------
// Requests
// ----------------------

type CreateSaleRequest struct {
	CustomerID         uuid.UUID `json:"customer_id" validate:"required"`
	ProductID          uuid.UUID `json:"product_id" validate:"required"`
	Quantity           int       `json:"quantity" validate:"required,min=1"`
	UnitPriceRupees    float64   `json:"unit_price" validate:"required,gt=0"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"min=0,max=100"`
	PaymentMethod      string    `json:"payment_method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER"`
}

type UpdateSaleRequest struct {
	Quantity           int     `json:"quantity" validate:"required,min=1"`
	UnitPriceRupees    float64 `json:"unit_price" validate:"required,gt=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"min=0,max=100"`
	PaymentMethod      string  `json:"payment_method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER"`
	RowVersion         int64   `json:"row_version" validate:"required,min=1"`
}

// ApplyDiscountRequest adjusts the discount on an existing sale. Above
// the discount threshold it queues as DISCOUNT_APPLY instead of
// committing.
type ApplyDiscountRequest struct {
	DiscountPercentage float64 `json:"discount_percentage" validate:"required,gt=0,max=100"`
}
