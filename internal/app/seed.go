package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// Fixed IDs so repeated boots (and local API clients) see stable data.
// The store doubles as the idempotency sentinel.
const (
	SeedStoreID       = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"
	SeedGroundFloorID = "dddddddd-dddd-4ddd-dddd-ddddddddddd2"
	SeedFirstFloorID  = "dddddddd-dddd-4ddd-dddd-ddddddddddd3"
	SeedGoldCatID     = "dddddddd-dddd-4ddd-dddd-ddddddddddd4"
	SeedSilverCatID   = "dddddddd-dddd-4ddd-dddd-ddddddddddd5"
	SeedAdminID       = "dddddddd-dddd-4ddd-dddd-ddddddddddd6"
	SeedManagerID     = "dddddddd-dddd-4ddd-dddd-ddddddddddd7"
	SeedSalespersonID = "dddddddd-dddd-4ddd-dddd-ddddddddddd8"

	seedPassword = "changeme123"
)

// SeedTestData populates a single store with enough catalog, staff and
// customer data to exercise the API locally. Idempotent: if the sentinel
// store exists the whole routine is skipped.
func SeedTestData(
	ctx context.Context,
	storeRepo repositories.StoreRepository,
	floorRepo repositories.FloorRepository,
	categoryRepo repositories.CategoryRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	customerRepo repositories.CustomerRepository,
	saleRepo repositories.SaleRepository,
) error {
	storeID := uuid.MustParse(SeedStoreID)

	if existing, err := storeRepo.GetByID(ctx, storeID); err != nil {
		return fmt.Errorf("check sentinel store: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding.")
		return nil
	}

	now := time.Now().UTC()

	store := &models.Store{
		ID:        storeID,
		Name:      "Sarkar Jewellers - CG Road",
		Address:   "12 CG Road",
		City:      "Ahmedabad",
		State:     "Gujarat",
		Phone:     "+917900000001",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := storeRepo.Create(ctx, store); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	managerID := uuid.MustParse(SeedManagerID)
	floors := []*models.Floor{
		{ID: uuid.MustParse(SeedGroundFloorID), StoreID: storeID, Name: "Ground Floor", Number: 1, ManagerID: &managerID},
		{ID: uuid.MustParse(SeedFirstFloorID), StoreID: storeID, Name: "First Floor", Number: 2},
	}
	for _, f := range floors {
		f.CreatedAt, f.UpdatedAt = now, now
		if err := floorRepo.Create(ctx, f); err != nil {
			return fmt.Errorf("seed floor %d: %w", f.Number, err)
		}
	}

	categories := []*models.Category{
		{ID: uuid.MustParse(SeedGoldCatID), StoreID: storeID, Name: "Gold Jewellery"},
		{ID: uuid.MustParse(SeedSilverCatID), StoreID: storeID, Name: "Silver Jewellery"},
	}
	for _, c := range categories {
		c.CreatedAt, c.UpdatedAt = now, now
		if err := categoryRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	groundFloorID := uuid.MustParse(SeedGroundFloorID)
	users := []*models.User{
		{ID: uuid.MustParse(SeedAdminID), Email: "admin@sarkar.local", FirstName: "Asha", LastName: "Sarkar", Role: models.RoleBusinessAdmin},
		{ID: managerID, Email: "manager@sarkar.local", FirstName: "Mehul", LastName: "Desai", Role: models.RoleFloorManager, FloorID: &groundFloorID},
		{ID: uuid.MustParse(SeedSalespersonID), Email: "sales@sarkar.local", FirstName: "Priya", LastName: "Shah", Role: models.RoleSalesperson, FloorID: &groundFloorID},
	}
	for _, u := range users {
		u.StoreID = storeID
		u.PasswordHash = hash
		u.IsActive = true
		u.CreatedAt, u.UpdatedAt = now, now
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	purity22 := "22K"
	purity925 := "925"
	weightBangle := 24.5
	weightChain := 42.0
	products := []*models.Product{
		{
			ID: uuid.New(), StoreID: storeID, CategoryID: uuid.MustParse(SeedGoldCatID), FloorID: &groundFloorID,
			SKU: "GLD-BNG-001", Name: "Gold Bangle", MetalType: models.MetalGold, Purity: &purity22,
			WeightGrams: &weightBangle, Price: 185000_00, StockQuantity: 8,
		},
		{
			ID: uuid.New(), StoreID: storeID, CategoryID: uuid.MustParse(SeedSilverCatID), FloorID: &groundFloorID,
			SKU: "SLV-CHN-001", Name: "Silver Chain", MetalType: models.MetalSilver, Purity: &purity925,
			WeightGrams: &weightChain, Price: 6200_00, StockQuantity: 30,
		},
	}
	for _, p := range products {
		p.CreatedAt, p.UpdatedAt = now, now
		entry := &models.AuditLog{
			ID:         uuid.New(),
			UserID:     uuid.MustParse(SeedAdminID),
			Action:     models.AuditProductCreated,
			EntityType: models.EntityProduct,
			EntityID:   p.ID,
			CreatedAt:  now,
		}
		if err := productRepo.CreateWithAudit(ctx, p, entry); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
	}

	customers := []*models.Customer{
		{
			ID: uuid.New(), StoreID: storeID, FloorID: &groundFloorID,
			FirstName: "Ravi", LastName: "Patel", Phone: "+919800000001",
			CustomerValue: models.CustomerValueHighValue, TotalPurchases: 420000_00,
		},
		{
			ID: uuid.New(), StoreID: storeID,
			FirstName: "Sneha", LastName: "Mehta", Phone: "+919800000002",
			CustomerValue: models.CustomerValueRegular, TotalPurchases: 18000_00,
		},
	}
	for _, c := range customers {
		c.CreatedAt, c.UpdatedAt = now, now
		entry := &models.AuditLog{
			ID:         uuid.New(),
			UserID:     uuid.MustParse(SeedSalespersonID),
			Action:     models.AuditCustomerCreated,
			EntityType: models.EntityCustomer,
			EntityID:   c.ID,
			CreatedAt:  now,
		}
		if err := customerRepo.CreateWithAudit(ctx, c, entry); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Phone, err)
		}
	}

	sales := []*models.Sale{
		{
			ID: uuid.New(), StoreID: storeID,
			CustomerID: customers[1].ID, ProductID: products[1].ID,
			SalespersonID: uuid.MustParse(SeedSalespersonID),
			Quantity:      1, UnitPrice: products[1].Price,
			TotalAmount: products[1].Price, PaymentMethod: models.PaymentUPI,
			SaleDate: now.Add(-48 * time.Hour),
		},
		{
			ID: uuid.New(), StoreID: storeID,
			CustomerID: customers[0].ID, ProductID: products[1].ID,
			SalespersonID: uuid.MustParse(SeedSalespersonID),
			Quantity:      2, UnitPrice: products[1].Price,
			DiscountPercentage: 5, TotalAmount: 11780_00, PaymentMethod: models.PaymentCard,
			SaleDate: now.Add(-2 * time.Hour),
		},
	}
	for _, s := range sales {
		entry := &models.AuditLog{
			ID:         uuid.New(),
			UserID:     uuid.MustParse(SeedSalespersonID),
			Action:     models.AuditSaleCreated,
			EntityType: models.EntitySale,
			EntityID:   s.ID,
			CreatedAt:  now,
		}
		if err := saleRepo.CreateWithAudit(ctx, s, entry); err != nil {
			return fmt.Errorf("seed sale %s: %w", s.ID, err)
		}
	}

	utils.Logger.Info("Seeding completed successfully.")
	return nil
}
