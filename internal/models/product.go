package models

import (
	"time"

	"github.com/google/uuid"
)

type MetalType string

const (
	MetalGold     MetalType = "GOLD"
	MetalSilver   MetalType = "SILVER"
	MetalPlatinum MetalType = "PLATINUM"
	MetalDiamond  MetalType = "DIAMOND"
	MetalOther    MetalType = "OTHER"
)

// Product is a catalog item. Price is stored in paise.
type Product struct {
	Versioned
	ID            uuid.UUID  `json:"id"`
	StoreID       uuid.UUID  `json:"store_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	FloorID       *uuid.UUID `json:"floor_id,omitempty"`
	SKU           string     `json:"sku"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	MetalType     MetalType  `json:"metal_type"`
	Purity        *string    `json:"purity,omitempty"` // e.g. "22K", "925"
	WeightGrams   *float64   `json:"weight_grams,omitempty"`
	Price         int64      `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

func (p *Product) GetID() string { return p.ID.String() }
