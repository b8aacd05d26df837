package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/constants"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// SweeperService enforces the per-priority SLA on pending approvals and
// nags about stale escalations. main schedules RunSweep on a cron.
type SweeperService struct {
	wfRepo         repositories.ApprovalWorkflowRepository
	escalationRepo repositories.EscalationRepository
	userRepo       repositories.UserRepository
	notifier       *NotificationService
}

func NewSweeperService(
	wfRepo repositories.ApprovalWorkflowRepository,
	escalationRepo repositories.EscalationRepository,
	userRepo repositories.UserRepository,
	notifier *NotificationService,
) *SweeperService {
	return &SweeperService{
		wfRepo:         wfRepo,
		escalationRepo: escalationRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

// systemActor stamps sweeper-originated audit entries. The zero UUID is
// reserved; no real user ever has it.
var systemActor = Actor{UserID: uuid.Nil}

// RunSweep walks every pending approval once. Overdue requests get their
// priority bumped one band; requests pending past twice their window are
// escalated outright. Each finding is processed independently so one bad
// row cannot stall the sweep.
func (s *SweeperService) RunSweep(ctx context.Context) error {
	pending, err := s.wfRepo.ListPending(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, wf := range pending {
		age := now.Sub(wf.CreatedAt)
		window := SLAWindow(wf.Priority)

		switch {
		case age > 2*window:
			s.autoEscalate(ctx, wf, age)
		case age > window && wf.Priority != models.PriorityUrgent:
			s.bumpPriority(ctx, wf)
		}
	}

	s.remindStaleEscalations(ctx)
	return nil
}

func (s *SweeperService) autoEscalate(ctx context.Context, wf *models.ApprovalWorkflow, age time.Duration) {
	notes := fmt.Sprintf("auto-escalated after %s pending (SLA %s)", age.Round(time.Minute), SLAWindow(wf.Priority))
	wf.Status = models.ApprovalEscalated
	wf.ApproverID = nil
	wf.ApprovalNotes = &notes

	entry := systemActor.auditEntry(models.AuditApprovalEscalated, models.EntityApproval, wf.ID, nil, wf)
	if err := s.wfRepo.ResolveWithAudit(ctx, wf, entry); err != nil {
		utils.Logger.WithError(err).WithField("approval_id", wf.ID).
			Warn("Sweeper could not auto-escalate approval")
		return
	}
	utils.Logger.WithField("approval_id", wf.ID).WithField("age", age.Round(time.Minute)).
		Info("Approval auto-escalated past SLA")
	s.alertAdmins(ctx, wf, "approval auto-escalated past its SLA")
}

func (s *SweeperService) bumpPriority(ctx context.Context, wf *models.ApprovalWorkflow) {
	to := wf.Priority.Bump()
	entry := systemActor.auditEntry(models.AuditApprovalPriorityBumped, models.EntityApproval, wf.ID,
		map[string]string{"priority": string(wf.Priority)},
		map[string]string{"priority": string(to)})
	if err := s.wfRepo.BumpPriorityWithAudit(ctx, wf.ID, to, entry); err != nil {
		utils.Logger.WithError(err).WithField("approval_id", wf.ID).
			Warn("Sweeper could not bump approval priority")
		return
	}
	wf.Priority = to
	s.alertAdmins(ctx, wf, "approval is overdue, priority raised to "+string(to))
}

func (s *SweeperService) alertAdmins(ctx context.Context, wf *models.ApprovalWorkflow, reason string) {
	if s.notifier == nil {
		return
	}
	admins, err := s.userRepo.ListAdmins(ctx, wf.StoreID)
	if err != nil {
		utils.Logger.WithError(err).Warn("Could not list admins for SLA alert")
		return
	}
	subject := fmt.Sprintf("[%s] %s", wf.Priority, reason)
	body := fmt.Sprintf("Approval %s (%s): %s", wf.ID, wf.ActionType, reason)
	for _, admin := range admins {
		if err := s.notifier.Email(ctx, admin.Email, subject, body); err != nil {
			utils.Logger.WithError(err).WithField("email", admin.Email).Warn("SLA alert email failed")
		}
	}
}

func (s *SweeperService) remindStaleEscalations(ctx context.Context) {
	stale, err := s.escalationRepo.ListStaleOpen(ctx, constants.EscalationReminderAge)
	if err != nil {
		utils.Logger.WithError(err).Warn("Could not list stale escalations")
		return
	}
	for _, esc := range stale {
		if s.notifier == nil || esc.AssigneeID == nil {
			continue
		}
		assignee, err := s.userRepo.GetByID(ctx, *esc.AssigneeID)
		if err != nil || assignee == nil {
			continue
		}
		subject := fmt.Sprintf("Reminder: escalation %q is still open", esc.Title)
		body := fmt.Sprintf("Escalation %s has been open since %s.", esc.ID, esc.CreatedAt.Format(time.RFC822))
		if err := s.notifier.Email(ctx, assignee.Email, subject, body); err != nil {
			utils.Logger.WithError(err).WithField("escalation_id", esc.ID).
				Warn("Stale escalation reminder failed")
		}
	}
}
