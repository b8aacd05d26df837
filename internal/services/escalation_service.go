package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type EscalationService struct {
	escalationRepo repositories.EscalationRepository
	userRepo       repositories.UserRepository
	notifier       *NotificationService
}

func NewEscalationService(
	escalationRepo repositories.EscalationRepository,
	userRepo repositories.UserRepository,
	notifier *NotificationService,
) *EscalationService {
	return &EscalationService{escalationRepo: escalationRepo, userRepo: userRepo, notifier: notifier}
}

func (s *EscalationService) Create(ctx context.Context, actor Actor, req *dtos.CreateEscalationRequest) (*models.Escalation, error) {
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.PriorityType(req.Priority)
	}

	if req.AssigneeID != nil {
		assignee, err := s.userRepo.GetByID(ctx, *req.AssigneeID)
		if err != nil {
			return nil, err
		}
		if assignee == nil || assignee.StoreID != actor.StoreID {
			return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "assignee not found", utils.ErrUserNotFound)
		}
	}

	esc := &models.Escalation{
		ID:          uuid.New(),
		StoreID:     actor.StoreID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      models.EscalationOpen,
		RequesterID: actor.UserID,
		AssigneeID:  req.AssigneeID,
	}
	entry := actor.auditEntry(models.AuditEscalationCreated, models.EntityEscalation, esc.ID, nil, esc)
	if err := s.escalationRepo.CreateWithAudit(ctx, esc, entry); err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, esc)
	return esc, nil
}

func (s *EscalationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Escalation, error) {
	return s.getOwned(ctx, actor, id)
}

func (s *EscalationService) List(ctx context.Context, actor Actor, status models.EscalationStatus, limit, offset int) ([]*models.Escalation, int, error) {
	filter := repositories.EscalationFilter{StoreID: &actor.StoreID, Status: status}
	return s.escalationRepo.List(ctx, filter, limit, offset)
}

// Advance moves an escalation exactly one step forward; anything else is
// an invalid transition.
func (s *EscalationService) Advance(ctx context.Context, actor Actor, id uuid.UUID, req *dtos.AdvanceEscalationRequest) (*models.Escalation, error) {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	target := models.EscalationStatus(req.Status)
	if !current.Status.CanAdvanceTo(target) {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeWrongStatus,
			fmt.Sprintf("cannot move escalation from %s to %s", current.Status, target), utils.ErrInvalidTransition)
	}

	updated := *current
	updated.Status = target
	if req.AssigneeID != nil {
		updated.AssigneeID = req.AssigneeID
	}

	entry := actor.auditEntry(models.AuditEscalationUpdated, models.EntityEscalation, id, current, &updated)
	if err := s.escalationRepo.AdvanceWithAudit(ctx, &updated, current.Status, entry); err != nil {
		if err == utils.ErrNoRowsUpdated {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeWrongStatus,
				"escalation was advanced by someone else", utils.ErrInvalidTransition)
		}
		return nil, err
	}
	return &updated, nil
}

func (s *EscalationService) getOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Escalation, error) {
	e, err := s.escalationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "escalation not found", utils.ErrEscalationNotFound)
	}
	return e, nil
}

func (s *EscalationService) notifyAssignee(ctx context.Context, esc *models.Escalation) {
	if s.notifier == nil || esc.AssigneeID == nil {
		return
	}
	assignee, err := s.userRepo.GetByID(ctx, *esc.AssigneeID)
	if err != nil || assignee == nil {
		return
	}
	subject := fmt.Sprintf("[%s] escalation assigned: %s", esc.Priority, esc.Title)
	if err := s.notifier.Email(ctx, assignee.Email, subject, esc.Description); err != nil {
		utils.Logger.WithError(err).WithField("escalation_id", esc.ID).
			Warn("Escalation assignment email failed")
	}
}
