package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type AuthController struct {
	cfg         *config.Config
	authService *services.AuthService
	validate    *validator.Validate
}

func NewAuthController(cfg *config.Config, authService *services.AuthService) *AuthController {
	return &AuthController{cfg: cfg, authService: authService, validate: validator.New()}
}

// POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	user, token, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(c.cfg.TokenExpiry.Seconds()),
	})
}
