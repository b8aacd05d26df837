package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func TestProductCreateDuplicateSKUConflicts(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	_, err := env.Products.Create(context.Background(), admin, &dtos.CreateProductRequest{
		Name:        "Another Ring",
		CategoryID:  env.Category.ID,
		SKU:         env.Product.SKU,
		MetalType:   "GOLD",
		PriceRupees: 5000,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
}

func TestProductCreateUnknownCategoryIs404(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	_, err := env.Products.Create(context.Background(), admin, &dtos.CreateProductRequest{
		Name:        "Orphan",
		CategoryID:  env.Product.ID, // not a category
		SKU:         "SKU-X",
		MetalType:   "GOLD",
		PriceRupees: 5000,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func updateReqFor(p *models.Product, priceRupees float64) *dtos.UpdateProductRequest {
	return &dtos.UpdateProductRequest{
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		MetalType:     string(p.MetalType),
		PriceRupees:   priceRupees,
		StockQuantity: p.StockQuantity,
		RowVersion:    p.RowVersion,
	}
}

func TestPriceMoveWithinBandCommits(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	// 20,000 -> 21,000 is a 5% move.
	updated, wf, err := env.Products.Update(context.Background(), admin, env.Product.ID,
		updateReqFor(env.Product, 21000))
	require.NoError(t, err)
	require.Nil(t, wf)
	require.Equal(t, int64(21000_00), updated.Price)
	require.Contains(t, env.Data.AuditActions(), models.AuditProductUpdated)
}

func TestPriceMovePastBandDefersAndExecutes(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	// 20,000 -> 23,000 is a 15% move. The rename rides along in the
	// same request and must land with it on approval.
	req := updateReqFor(env.Product, 23000)
	req.Name = "Gold Ring Deluxe"
	updated, wf, err := env.Products.Update(context.Background(), admin, env.Product.ID, req)
	require.NoError(t, err)
	require.Nil(t, updated)
	require.NotNil(t, wf)
	require.Equal(t, models.ActionProductUpdate, wf.ActionType)
	require.Equal(t, int64(20000_00), env.Product.Price, "price untouched while pending")

	var ch models.ProductChange
	require.NoError(t, json.Unmarshal(wf.RequestData, &ch))
	require.NotNil(t, ch.Old)
	require.NotNil(t, ch.New)
	require.Equal(t, int64(20000_00), ch.Old.Price)
	require.Equal(t, "Gold Ring Deluxe", ch.New.Name)

	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	got, err := env.Products.Get(context.Background(), admin, env.Product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(23000_00), got.Price)
	require.Equal(t, "Gold Ring Deluxe", got.Name)
	require.Contains(t, env.Data.AuditActions(), models.AuditProductUpdated)
}

func TestProductUpdateRowVersionConflict(t *testing.T) {
	env := testhelpers.NewEnv(t)
	admin := env.ActorFor(env.Admin)

	req := updateReqFor(env.Product, 20500)
	req.RowVersion = env.Product.RowVersion + 1
	_, _, err := env.Products.Update(context.Background(), admin, env.Product.ID, req)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, utils.ErrCodeRowVersionConflict, appErr.Code)
}
