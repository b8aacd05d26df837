package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

const TokenIssuer = "sarkar-crm"

// AuthService checks credentials and issues RS256 access tokens carrying
// the caller's id, role and store.
type AuthService struct {
	cfg      *config.Config
	userRepo repositories.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo repositories.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Login verifies the password against the stored bcrypt hash. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		return nil, "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials,
			"invalid email or password", utils.ErrInvalidCredentials)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials,
			"invalid email or password", utils.ErrInvalidCredentials)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      TokenIssuer,
		"sub":      user.ID.String(),
		"exp":      now.Add(s.cfg.TokenExpiry).Unix(),
		"iat":      now.Unix(),
		"jti":      uuid.NewString(),
		"role":     string(user.Role),
		"store_id": user.StoreID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.cfg.RSAPrivateKey)
}
