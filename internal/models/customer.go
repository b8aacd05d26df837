package models

import (
	"time"

	"github.com/google/uuid"
)

type CustomerValueType string

const (
	CustomerValueRegular   CustomerValueType = "REGULAR"
	CustomerValueHighValue CustomerValueType = "HIGH_VALUE"
)

// Customer is a store-scoped customer record. TotalPurchases is in paise.
type Customer struct {
	Versioned
	ID             uuid.UUID         `json:"id"`
	StoreID        uuid.UUID         `json:"store_id"`
	FloorID        *uuid.UUID        `json:"floor_id,omitempty"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Email          *string           `json:"email,omitempty"`
	Phone          string            `json:"phone"`
	Address        *string           `json:"address,omitempty"`
	City           *string           `json:"city,omitempty"`
	CustomerValue  CustomerValueType `json:"customer_value"`
	TotalPurchases int64             `json:"total_purchases"`
	Notes          *string           `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      *time.Time        `json:"deleted_at,omitempty"`
}

func (c *Customer) GetID() string { return c.ID.String() }
