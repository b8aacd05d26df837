package dtos

import "github.com/google/uuid"

// ----------------------
// Requests
// ----------------------

type CreateCustomerRequest struct {
	FirstName     string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string     `json:"last_name" validate:"required,min=1,max=100"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string     `json:"phone" validate:"required,min=10,max=15"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	City          *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	CustomerValue string     `json:"customer_value" validate:"omitempty,oneof=REGULAR HIGH_VALUE"`
	FloorID       *uuid.UUID `json:"floor_id,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateCustomerRequest struct {
	FirstName     string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string     `json:"last_name" validate:"required,min=1,max=100"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string     `json:"phone" validate:"required,min=10,max=15"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	City          *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	CustomerValue string     `json:"customer_value" validate:"required,oneof=REGULAR HIGH_VALUE"`
	FloorID       *uuid.UUID `json:"floor_id,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	RowVersion    int64      `json:"row_version" validate:"required,min=1"`
}
