package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
)

// backdate moves a pending approval's creation time into the past.
func backdate(env *testhelpers.Env, wf *models.ApprovalWorkflow, age time.Duration) {
	env.Data.Workflows[wf.ID].CreatedAt = time.Now().UTC().Add(-age)
}

func TestSweepBumpsOverduePriority(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env) // MEDIUM, 8h window
	backdate(env, wf, 9*time.Hour)

	require.NoError(t, env.Sweeper.RunSweep(context.Background()))

	got, err := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalPending, got.Status, "bump does not resolve")
	require.Equal(t, models.PriorityHigh, got.Priority)
	require.Contains(t, env.Data.AuditActions(), models.AuditApprovalPriorityBumped)
}

func TestSweepAutoEscalatesPastTwiceTheWindow(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)
	backdate(env, wf, 17*time.Hour) // 2 x 8h, plus change

	require.NoError(t, env.Sweeper.RunSweep(context.Background()))

	got, err := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalEscalated, got.Status)
	require.NotNil(t, got.ApprovalNotes)

	// Sweeper entries carry the reserved system identity.
	var found bool
	for _, e := range env.Data.AuditLog {
		if e.Action == models.AuditApprovalEscalated {
			found = true
			require.Equal(t, uuid.Nil, e.UserID)
		}
	}
	require.True(t, found)
}

func TestSweepLeavesFreshApprovalsAlone(t *testing.T) {
	env := testhelpers.NewEnv(t)
	wf := createPendingSale(t, env)

	require.NoError(t, env.Sweeper.RunSweep(context.Background()))

	got, err := env.Workflows.Get(context.Background(), wf.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalPending, got.Status)
	require.Equal(t, models.PriorityMedium, got.Priority)
}
