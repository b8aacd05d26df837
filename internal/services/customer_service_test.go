package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func TestCustomerCreateDuplicatePhoneConflicts(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	_, _, err := env.Customers.Create(context.Background(), seller, &dtos.CreateCustomerRequest{
		FirstName: "Dup",
		LastName:  "Licate",
		Phone:     env.Customer.Phone,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.ErrorIs(t, err, utils.ErrDuplicateRecord)
}

func TestCustomerCreateUniqueViolationMapsToConflict(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	// A concurrent insert can slip past the duplicate pre-check; the
	// constraint error coming back from the database must still be a 409.
	env.Data.FailNextWrite = &pgconn.PgError{Code: "23505"}
	_, _, err := env.Customers.Create(context.Background(), seller, &dtos.CreateCustomerRequest{
		FirstName: "Race",
		LastName:  "Loser",
		Phone:     "+919800000042",
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Equal(t, utils.ErrCodeConflict, appErr.Code)
}

func TestSalespersonCreatesCustomerDirectly(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	customer, wf, err := env.Customers.Create(context.Background(), seller, &dtos.CreateCustomerRequest{
		FirstName: "Anil",
		LastName:  "Kumar",
		Phone:     "+919800000099",
	})
	require.NoError(t, err)
	require.Nil(t, wf)
	require.Equal(t, models.CustomerValueRegular, customer.CustomerValue)
	require.Equal(t, env.StoreID, customer.StoreID)
	require.Contains(t, env.Data.AuditActions(), models.AuditCustomerCreated)
}

func TestFloorManagerCustomerCreateDefers(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	customer, wf, err := env.Customers.Create(context.Background(), manager, &dtos.CreateCustomerRequest{
		FirstName: "Deferred",
		LastName:  "Customer",
		Phone:     "+919800000098",
	})
	require.NoError(t, err)
	require.Nil(t, customer)
	require.NotNil(t, wf)
	require.Equal(t, models.ActionCustomerCreate, wf.ActionType)

	// Approving materializes the customer.
	admin := env.ActorFor(env.Admin)
	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	created, err := env.CustomerRepo.GetByPhone(context.Background(), env.StoreID, "+919800000098")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, "Deferred", created.FirstName)
}

func TestHighValueCustomerUpdateDefers(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	req := &dtos.UpdateCustomerRequest{
		FirstName:     env.VIP.FirstName,
		LastName:      env.VIP.LastName,
		Phone:         env.VIP.Phone,
		CustomerValue: string(models.CustomerValueHighValue),
		Notes:         strPtr("prefers evening visits"),
		RowVersion:    env.VIP.RowVersion,
	}
	updated, wf, err := env.Customers.Update(context.Background(), seller, env.VIP.ID, req)
	require.NoError(t, err)
	require.Nil(t, updated)
	require.NotNil(t, wf)
	require.Equal(t, models.ActionCustomerUpdate, wf.ActionType)
	require.Nil(t, env.VIP.Notes, "record untouched while pending")

	admin := env.ActorFor(env.Admin)
	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	got, err := env.Customers.Get(context.Background(), seller, env.VIP.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	require.Equal(t, "prefers evening visits", *got.Notes)
}

func TestUpgradeToHighValueDefers(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	// The edit that marks a customer high-value is itself reviewed; a
	// salesperson cannot mint a high-value customer unilaterally.
	req := &dtos.UpdateCustomerRequest{
		FirstName:     env.Customer.FirstName,
		LastName:      env.Customer.LastName,
		Phone:         env.Customer.Phone,
		CustomerValue: string(models.CustomerValueHighValue),
		RowVersion:    env.Customer.RowVersion,
	}
	updated, wf, err := env.Customers.Update(context.Background(), seller, env.Customer.ID, req)
	require.NoError(t, err)
	require.Nil(t, updated)
	require.NotNil(t, wf)
	require.Equal(t, models.CustomerValueRegular, env.Customer.CustomerValue, "still regular while pending")

	admin := env.ActorFor(env.Admin)
	_, err = env.Workflows.Resolve(context.Background(), admin, wf.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	got, err := env.Customers.Get(context.Background(), seller, env.Customer.ID)
	require.NoError(t, err)
	require.Equal(t, models.CustomerValueHighValue, got.CustomerValue)
}

func TestRegularCustomerUpdateCommitsDirectly(t *testing.T) {
	env := testhelpers.NewEnv(t)
	seller := env.ActorFor(env.Seller)

	req := &dtos.UpdateCustomerRequest{
		FirstName:     "Ravi",
		LastName:      "Patel",
		Phone:         env.Customer.Phone,
		CustomerValue: string(models.CustomerValueRegular),
		City:          strPtr("Surat"),
		RowVersion:    env.Customer.RowVersion,
	}
	updated, wf, err := env.Customers.Update(context.Background(), seller, env.Customer.ID, req)
	require.NoError(t, err)
	require.Nil(t, wf)
	require.Equal(t, "Surat", *updated.City)
	require.Contains(t, env.Data.AuditActions(), models.AuditCustomerUpdated)
}

func strPtr(s string) *string { return &s }
