package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Create(ctx context.Context, actor Actor, req *dtos.CreateUserRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict,
			"a user with this email already exists", utils.ErrDuplicateRecord)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		StoreID:      actor.StoreID,
		FloorID:      req.FloorID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleType(req.Role),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicateAsConflict(err, "a user with this email already exists")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "user not found", utils.ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.User, int, error) {
	return s.userRepo.ListByStore(ctx, actor.StoreID, limit, offset)
}
