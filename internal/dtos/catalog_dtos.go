package dtos

import "github.com/google/uuid"

// ----------------------
// Requests
// ----------------------

type CreateFloorRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Number int16  `json:"number" validate:"required,min=1"`
}

// AssignFloorRequest puts a user in charge of a floor. For
// FLOOR_MANAGER callers this queues as a FLOOR_ASSIGNMENT approval.
type AssignFloorRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	FloorID uuid.UUID `json:"floor_id" validate:"required"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type CreateUserRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	FirstName string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string     `json:"last_name" validate:"required,min=1,max=100"`
	Role      string     `json:"role" validate:"required,oneof=BUSINESS_ADMIN FLOOR_MANAGER SALESPERSON"`
	FloorID   *uuid.UUID `json:"floor_id,omitempty"`
}
