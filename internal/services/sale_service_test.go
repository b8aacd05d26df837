package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func TestUnderThresholdSaleCommitsDirectly(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	sale, wf, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 20000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)
	require.Nil(t, wf)
	require.NotNil(t, sale)
	require.Equal(t, int64(20000_00), sale.TotalAmount)
	require.Equal(t, env.Seller.ID, sale.SalespersonID)

	require.Equal(t, 9, env.Product.StockQuantity)
	require.Equal(t, int64(20000_00), env.Customer.TotalPurchases)
	require.Contains(t, env.Data.AuditActions(), models.AuditSaleCreated)
}

func TestSaleCreateInsufficientStock(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	_, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        11,
		UnitPriceRupees: 100,
		PaymentMethod:   "CASH",
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Equal(t, 10, env.Product.StockQuantity)
}

func TestFloorManagerSaleAlwaysDefers(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	// Well under the amount threshold, yet the role cannot commit.
	sale, wf, err := env.Sales.Create(context.Background(), manager, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 500,
		PaymentMethod:   "UPI",
	})
	require.NoError(t, err)
	require.Nil(t, sale)
	require.NotNil(t, wf)
	require.Equal(t, models.ApprovalPending, wf.Status)
	require.Empty(t, env.Data.Sales)
}

func TestSaleUpdateRowVersionConflict(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	sale, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)

	_, _, err = env.Sales.Update(context.Background(), seller, sale.ID, &dtos.UpdateSaleRequest{
		Quantity:        2,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
		RowVersion:      sale.RowVersion + 5,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Equal(t, utils.ErrCodeRowVersionConflict, appErr.Code)
}

func TestDiscountAboveCapDefers(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	sale, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)

	updated, wf, err := env.Sales.ApplyDiscount(context.Background(), seller, sale.ID, 20)
	require.NoError(t, err)
	require.Nil(t, updated)
	require.NotNil(t, wf)
	require.Equal(t, models.ActionDiscountApply, wf.ActionType)

	// Approving applies the discount and recomputes the total.
	admin := env.ActorFor(env.Admin)
	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	got, err := env.Sales.Get(context.Background(), seller, sale.ID)
	require.NoError(t, err)
	require.Equal(t, float64(20), got.DiscountPercentage)
	require.Equal(t, int64(800_00), got.TotalAmount)
}

func TestDiscountWithinCapCommits(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	sale, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)

	updated, wf, err := env.Sales.ApplyDiscount(context.Background(), seller, sale.ID, 10)
	require.NoError(t, err)
	require.Nil(t, wf)
	require.Equal(t, int64(900_00), updated.TotalAmount)
	require.Equal(t, int64(900_00), env.Customer.TotalPurchases)
}

func TestDeleteRestocksAndAdjustsTotals(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)
	admin := env.ActorFor(env.Admin)

	sale, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        2,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)
	require.Equal(t, 8, env.Product.StockQuantity)

	require.NoError(t, env.Sales.Delete(context.Background(), admin, sale.ID))
	require.Equal(t, 10, env.Product.StockQuantity)
	require.Equal(t, int64(0), env.Customer.TotalPurchases)
	require.Contains(t, env.Data.AuditActions(), models.AuditSaleDeleted)

	_, err = env.Sales.Get(context.Background(), seller, sale.ID)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestSaleIsInvisibleToOtherStores(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	sale, _, err := env.Sales.Create(context.Background(), seller, &dtos.CreateSaleRequest{
		CustomerID:      env.Customer.ID,
		ProductID:       env.Product.ID,
		Quantity:        1,
		UnitPriceRupees: 1000,
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)

	outsider := seller
	outsider.StoreID = env.Customer.ID // any other uuid
	_, err = env.Sales.Get(context.Background(), outsider, sale.ID)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
}
