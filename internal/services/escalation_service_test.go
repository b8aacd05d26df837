package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func TestEscalationLifecycle(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	esc, err := env.Escalations.Create(context.Background(), manager, &dtos.CreateEscalationRequest{
		Title:       "Customer dispute on invoice",
		Description: "Billing mismatch on last week's bangle sale.",
		AssigneeID:  &env.Admin.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.EscalationOpen, esc.Status)
	require.Equal(t, models.PriorityMedium, esc.Priority)
	require.Contains(t, env.Data.AuditActions(), models.AuditEscalationCreated)

	admin := env.ActorFor(env.Admin)
	esc, err = env.Escalations.Advance(context.Background(), admin, esc.ID,
		&dtos.AdvanceEscalationRequest{Status: "IN_PROGRESS"})
	require.NoError(t, err)
	require.Equal(t, models.EscalationInProgress, esc.Status)

	esc, err = env.Escalations.Advance(context.Background(), admin, esc.ID,
		&dtos.AdvanceEscalationRequest{Status: "RESOLVED"})
	require.NoError(t, err)
	require.Equal(t, models.EscalationResolved, esc.Status)

	got, err := env.Escalations.Get(context.Background(), admin, esc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedAt)
}

func TestEscalationCannotSkipSteps(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	esc, err := env.Escalations.Create(context.Background(), manager, &dtos.CreateEscalationRequest{
		Title:       "Stock mismatch",
		Description: "Counted 9, system says 10.",
	})
	require.NoError(t, err)

	_, err = env.Escalations.Advance(context.Background(), manager, esc.ID,
		&dtos.AdvanceEscalationRequest{Status: "CLOSED"})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.ErrorIs(t, err, utils.ErrInvalidTransition)

	got, getErr := env.Escalations.Get(context.Background(), manager, esc.ID)
	require.NoError(t, getErr)
	require.Equal(t, models.EscalationOpen, got.Status)
}

func TestEscalationUnknownAssigneeIs404(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	ghost := uuid.New()
	_, err := env.Escalations.Create(context.Background(), manager, &dtos.CreateEscalationRequest{
		Title:       "Orphan assignment",
		Description: "Should fail.",
		AssigneeID:  &ghost,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestEscalationListFiltersByStatus(t *testing.T) {
	env := testhelpers.NewEnv(t)
	manager := env.ActorFor(env.Manager)

	open, err := env.Escalations.Create(context.Background(), manager, &dtos.CreateEscalationRequest{
		Title: "Open one", Description: "stays open",
	})
	require.NoError(t, err)
	moved, err := env.Escalations.Create(context.Background(), manager, &dtos.CreateEscalationRequest{
		Title: "Moving one", Description: "gets picked up",
	})
	require.NoError(t, err)
	_, err = env.Escalations.Advance(context.Background(), manager, moved.ID,
		&dtos.AdvanceEscalationRequest{Status: "IN_PROGRESS"})
	require.NoError(t, err)

	openOnly, total, err := env.Escalations.List(context.Background(), manager, models.EscalationOpen, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, open.ID, openOnly[0].ID)
}
