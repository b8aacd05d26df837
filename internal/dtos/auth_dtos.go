package dtos

import "github.com/sarkar-crm/crm-service/internal/models"

// ----------------------
// Requests
// ----------------------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ----------------------
// Responses
// ----------------------

type LoginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}
