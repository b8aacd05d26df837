package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethodType string

const (
	PaymentCash         PaymentMethodType = "CASH"
	PaymentCard         PaymentMethodType = "CARD"
	PaymentUPI          PaymentMethodType = "UPI"
	PaymentBankTransfer PaymentMethodType = "BANK_TRANSFER"
)

// Sale records a completed (or proposed) transaction. UnitPrice and
// TotalAmount are in paise; TotalAmount is always derived server-side
// from quantity, unit price and discount.
type Sale struct {
	Versioned
	ID                 uuid.UUID         `json:"id"`
	StoreID            uuid.UUID         `json:"store_id"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	ProductID          uuid.UUID         `json:"product_id"`
	SalespersonID      uuid.UUID         `json:"salesperson_id"`
	Quantity           int               `json:"quantity"`
	UnitPrice          int64             `json:"unit_price"`
	DiscountPercentage float64           `json:"discount_percentage"`
	TotalAmount        int64             `json:"total_amount"`
	PaymentMethod      PaymentMethodType `json:"payment_method"`
	SaleDate           time.Time         `json:"sale_date"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	DeletedAt          *time.Time        `json:"deleted_at,omitempty"`
}

func (s *Sale) GetID() string { return s.ID.String() }

// ComputeTotal derives the payable amount in paise.
func (s *Sale) ComputeTotal() int64 {
	gross := float64(s.UnitPrice) * float64(s.Quantity)
	net := gross * (100 - s.DiscountPercentage) / 100
	if net < 0 {
		return 0
	}
	return int64(net + 0.5)
}
