package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/services"
)

// Env is a fully wired service graph over the in-memory fakes, seeded
// with one store, three users (one per role), a category, a product and
// two customers.
type Env struct {
	Data *Store

	StoreRepo      *FakeStoreRepo
	FloorRepo      *FakeFloorRepo
	CategoryRepo   *FakeCategoryRepo
	ProductRepo    *FakeProductRepo
	CustomerRepo   *FakeCustomerRepo
	UserRepo       *FakeUserRepo
	SaleRepo       *FakeSaleRepo
	WorkflowRepo   *FakeWorkflowRepo
	EscalationRepo *FakeEscalationRepo
	AuditRepo      *FakeAuditRepo

	Workflows   *services.WorkflowService
	Sales       *services.SaleService
	Customers   *services.CustomerService
	Products    *services.ProductService
	Floors      *services.FloorService
	Escalations *services.EscalationService
	Sweeper     *services.SweeperService

	StoreID   uuid.UUID
	Admin     *models.User
	Manager   *models.User
	Seller    *models.User
	FloorID   uuid.UUID
	Category  *models.Category
	Product   *models.Product
	Customer  *models.Customer  // REGULAR
	VIP       *models.Customer  // HIGH_VALUE
}

// ActorFor builds a request actor for one of the seeded users.
func (e *Env) ActorFor(u *models.User) services.Actor {
	return services.Actor{UserID: u.ID, StoreID: u.StoreID, Role: u.Role}
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	data := NewStore()

	e := &Env{
		Data:           data,
		StoreRepo:      &FakeStoreRepo{S: data},
		FloorRepo:      &FakeFloorRepo{S: data},
		CategoryRepo:   &FakeCategoryRepo{S: data},
		ProductRepo:    &FakeProductRepo{S: data},
		CustomerRepo:   &FakeCustomerRepo{S: data},
		UserRepo:       &FakeUserRepo{S: data},
		SaleRepo:       &FakeSaleRepo{S: data},
		WorkflowRepo:   &FakeWorkflowRepo{S: data},
		EscalationRepo: &FakeEscalationRepo{S: data},
		AuditRepo:      &FakeAuditRepo{S: data},
	}

	cfg := &config.Config{OrganizationName: "Test Jewellers"}
	notifier := services.NewNotificationService(cfg, nil, nil)

	e.Workflows = services.NewWorkflowService(e.WorkflowRepo, e.UserRepo, notifier)
	e.Sales = services.NewSaleService(e.SaleRepo, e.ProductRepo, e.CustomerRepo, e.Workflows)
	e.Customers = services.NewCustomerService(e.CustomerRepo, e.Workflows)
	e.Products = services.NewProductService(e.ProductRepo, e.CategoryRepo, e.Workflows)
	e.Floors = services.NewFloorService(e.FloorRepo, e.UserRepo, e.Workflows)
	e.Workflows.SetExecutor(services.NewActionExecutor(e.Sales, e.Customers, e.Products, e.Floors))
	e.Escalations = services.NewEscalationService(e.EscalationRepo, e.UserRepo, notifier)
	e.Sweeper = services.NewSweeperService(e.WorkflowRepo, e.EscalationRepo, e.UserRepo, notifier)

	ctx := context.Background()
	now := time.Now().UTC()

	e.StoreID = uuid.New()
	require.NoError(t, e.StoreRepo.Create(ctx, &models.Store{
		ID: e.StoreID, Name: "Test Store", CreatedAt: now, UpdatedAt: now,
	}))

	e.FloorID = uuid.New()
	require.NoError(t, e.FloorRepo.Create(ctx, &models.Floor{
		ID: e.FloorID, StoreID: e.StoreID, Name: "Ground", Number: 1,
		CreatedAt: now, UpdatedAt: now,
	}))

	mkUser := func(role models.RoleType, email string) *models.User {
		u := &models.User{
			ID: uuid.New(), StoreID: e.StoreID, Email: email,
			FirstName: "Test", LastName: string(role), Role: role,
			IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, e.UserRepo.Create(ctx, u))
		return u
	}
	e.Admin = mkUser(models.RoleBusinessAdmin, "admin@test.local")
	e.Manager = mkUser(models.RoleFloorManager, "manager@test.local")
	e.Seller = mkUser(models.RoleSalesperson, "seller@test.local")

	e.Category = &models.Category{
		ID: uuid.New(), StoreID: e.StoreID, Name: "Gold", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.CategoryRepo.Create(ctx, e.Category))

	e.Product = &models.Product{
		ID: uuid.New(), StoreID: e.StoreID, CategoryID: e.Category.ID,
		SKU: "SKU-1", Name: "Gold Ring", MetalType: models.MetalGold,
		Price: 20000_00, StockQuantity: 10, CreatedAt: now, UpdatedAt: now,
	}
	e.Product.RowVersion = 1
	data.Products[e.Product.ID] = e.Product

	e.Customer = &models.Customer{
		ID: uuid.New(), StoreID: e.StoreID, FirstName: "Ravi", LastName: "Patel",
		Phone: "+919800000001", CustomerValue: models.CustomerValueRegular,
		CreatedAt: now, UpdatedAt: now,
	}
	e.Customer.RowVersion = 1
	data.Customers[e.Customer.ID] = e.Customer

	e.VIP = &models.Customer{
		ID: uuid.New(), StoreID: e.StoreID, FirstName: "Sneha", LastName: "Mehta",
		Phone: "+919800000002", CustomerValue: models.CustomerValueHighValue,
		CreatedAt: now, UpdatedAt: now,
	}
	e.VIP.RowVersion = 1
	data.Customers[e.VIP.ID] = e.VIP

	return e
}
