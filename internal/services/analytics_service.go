package services

import (
	"context"

	"github.com/sarkar-crm/crm-service/internal/repositories"
)

type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

func (s *AnalyticsService) Dashboard(ctx context.Context, actor Actor) (*repositories.DashboardStats, error) {
	return s.analyticsRepo.Dashboard(ctx, actor.StoreID)
}

func (s *AnalyticsService) Sales(ctx context.Context, actor Actor) (*repositories.SalesAnalytics, error) {
	return s.analyticsRepo.Sales(ctx, actor.StoreID)
}

func (s *AnalyticsService) Customers(ctx context.Context, actor Actor) (*repositories.CustomerAnalytics, error) {
	return s.analyticsRepo.Customers(ctx, actor.StoreID)
}

func (s *AnalyticsService) Products(ctx context.Context, actor Actor) (*repositories.ProductAnalytics, error) {
	return s.analyticsRepo.Products(ctx, actor.StoreID)
}
