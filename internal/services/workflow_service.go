package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// WorkflowService owns the approval queue: recording deferred mutations,
// resolving them, and running the executor for approved ones.
type WorkflowService struct {
	wfRepo   repositories.ApprovalWorkflowRepository
	userRepo repositories.UserRepository
	notifier *NotificationService
	executor ActionExecutor
}

func NewWorkflowService(
	wfRepo repositories.ApprovalWorkflowRepository,
	userRepo repositories.UserRepository,
	notifier *NotificationService,
) *WorkflowService {
	return &WorkflowService{wfRepo: wfRepo, userRepo: userRepo, notifier: notifier}
}

// SetExecutor closes the construction cycle between the workflow service
// and the entity services the executor dispatches into. Must be called
// before the first Resolve.
func (s *WorkflowService) SetExecutor(exec ActionExecutor) { s.executor = exec }

// CreatePending records a deferred mutation and its audit entry in one
// transaction, then notifies the store admins best-effort.
func (s *WorkflowService) CreatePending(
	ctx context.Context,
	actor Actor,
	at models.ActionType,
	payload any,
	priority models.PriorityType,
) (*models.ApprovalWorkflow, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request data: %w", err)
	}

	wf := &models.ApprovalWorkflow{
		ID:          uuid.New(),
		StoreID:     actor.StoreID,
		ActionType:  at,
		RequesterID: actor.UserID,
		Status:      models.ApprovalPending,
		RequestData: data,
		Priority:    priority,
	}
	entry := actor.auditEntry(models.ApprovalRequestedAction(at), models.EntityApproval, wf.ID, nil, wf)
	if err := s.wfRepo.CreateWithAudit(ctx, wf, entry); err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, wf)
	return wf, nil
}

func (s *WorkflowService) Get(ctx context.Context, id uuid.UUID) (*models.ApprovalWorkflow, error) {
	wf, err := s.wfRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "approval not found", utils.ErrApprovalNotFound)
	}
	return wf, nil
}

func (s *WorkflowService) List(ctx context.Context, f repositories.ApprovalWorkflowFilter, limit, offset int) ([]*models.ApprovalWorkflow, int, error) {
	return s.wfRepo.List(ctx, f, limit, offset)
}

// Resolve moves a PENDING request into APPROVED, REJECTED or ESCALATED.
// The status flip and its audit entry commit in one transaction; for an
// approval the deferred mutation then runs in its own transaction, and a
// failure there compensates the request into EXECUTION_FAILED instead of
// leaving it silently APPROVED-but-unapplied.
func (s *WorkflowService) Resolve(
	ctx context.Context,
	actor Actor,
	id uuid.UUID,
	target models.ApprovalStatus,
	notes *string,
) (*models.ApprovalWorkflow, error) {
	if !models.ValidResolution(target) {
		return nil, utils.NewAppError(http.StatusUnprocessableEntity, utils.ErrCodeWrongStatus,
			fmt.Sprintf("cannot resolve an approval to %s", target), utils.ErrInvalidTransition)
	}

	wf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf.Status != models.ApprovalPending {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeWrongStatus,
			fmt.Sprintf("approval is already %s", wf.Status), utils.ErrApprovalNotPending)
	}

	// The approver must exist before any state is touched.
	approver, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if approver == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "approver not found", utils.ErrApproverNotFound)
	}

	prior := *wf

	wf.Status = target
	wf.ApproverID = &actor.UserID
	wf.ApprovalNotes = notes

	entry := actor.auditEntry(resolutionAuditAction(target), models.EntityApproval, wf.ID, prior, wf)
	if err := s.wfRepo.ResolveWithAudit(ctx, wf, entry); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			// Lost a race with another approver.
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeWrongStatus,
				"approval is no longer pending", utils.ErrApprovalNotPending)
		}
		return nil, err
	}

	if target != models.ApprovalApproved {
		return wf, nil
	}

	if execErr := s.executor.Execute(ctx, actor, wf); execErr != nil {
		utils.Logger.WithError(execErr).
			WithField("approval_id", wf.ID).
			WithField("action_type", wf.ActionType).
			Error("Approved action failed to execute; compensating to EXECUTION_FAILED")

		failure := map[string]string{"error": execErr.Error()}
		failEntry := actor.auditEntry(models.AuditApprovalExecutionFailed, models.EntityApproval, wf.ID, nil, failure)
		if markErr := s.wfRepo.MarkExecutionFailedWithAudit(ctx, wf.ID, failEntry); markErr != nil {
			utils.Logger.WithError(markErr).WithField("approval_id", wf.ID).
				Error("Failed to record EXECUTION_FAILED state")
		}
		wf.Status = models.ApprovalExecutionFailed
		return wf, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalService,
			"approval was recorded but the approved change could not be applied", execErr)
	}
	return wf, nil
}

func resolutionAuditAction(target models.ApprovalStatus) string {
	switch target {
	case models.ApprovalApproved:
		return models.AuditApprovalApproved
	case models.ApprovalRejected:
		return models.AuditApprovalRejected
	default:
		return models.AuditApprovalEscalated
	}
}

// notifyAdmins tells every active admin in the store that a request is
// waiting. Failures are logged, never surfaced; notification is not part
// of the write path's contract.
func (s *WorkflowService) notifyAdmins(ctx context.Context, wf *models.ApprovalWorkflow) {
	if s.notifier == nil {
		return
	}
	admins, err := s.userRepo.ListAdmins(ctx, wf.StoreID)
	if err != nil {
		utils.Logger.WithError(err).Warn("Could not list admins for approval notification")
		return
	}
	subject := fmt.Sprintf("[%s] approval requested (%s)", wf.Priority, wf.ActionType)
	body := fmt.Sprintf("Approval %s is waiting: action=%s priority=%s", wf.ID, wf.ActionType, wf.Priority)
	for _, admin := range admins {
		if err := s.notifier.Email(ctx, admin.Email, subject, body); err != nil {
			utils.Logger.WithError(err).WithField("email", admin.Email).
				Warn("Approval notification email failed")
		}
	}
}
