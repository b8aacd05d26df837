package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
)

type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) Create(ctx context.Context, actor Actor, req *dtos.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		ID:          uuid.New(),
		StoreID:     actor.StoreID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, actor Actor) ([]*models.Category, error) {
	return s.categoryRepo.ListByStore(ctx, actor.StoreID)
}
