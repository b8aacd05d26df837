package dtos

import "github.com/google/uuid"

// Prices arrive as rupees and are converted to paise at the service
// boundary; they are stored and returned as integer paise.

// ----------------------
// Requests
// ----------------------

type CreateProductRequest struct {
	SKU          string     `json:"sku" validate:"required,min=1,max=64"`
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	CategoryID   uuid.UUID  `json:"category_id" validate:"required"`
	FloorID      *uuid.UUID `json:"floor_id,omitempty"`
	MetalType    string     `json:"metal_type" validate:"required,oneof=GOLD SILVER PLATINUM DIAMOND OTHER"`
	Purity       *string    `json:"purity,omitempty" validate:"omitempty,max=16"`
	WeightGrams  *float64   `json:"weight_grams,omitempty" validate:"omitempty,gt=0"`
	PriceRupees  float64    `json:"price" validate:"required,gt=0"`
	StockQuantity int       `json:"stock_quantity" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name          string     `json:"name" validate:"required,min=1,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	CategoryID    uuid.UUID  `json:"category_id" validate:"required"`
	FloorID       *uuid.UUID `json:"floor_id,omitempty"`
	MetalType     string     `json:"metal_type" validate:"required,oneof=GOLD SILVER PLATINUM DIAMOND OTHER"`
	Purity        *string    `json:"purity,omitempty" validate:"omitempty,max=16"`
	WeightGrams   *float64   `json:"weight_grams,omitempty" validate:"omitempty,gt=0"`
	PriceRupees   float64    `json:"price" validate:"required,gt=0"`
	StockQuantity int        `json:"stock_quantity" validate:"min=0"`
	RowVersion    int64      `json:"row_version" validate:"required,min=1"`
}
