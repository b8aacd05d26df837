package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type FloorService struct {
	floorRepo repositories.FloorRepository
	userRepo  repositories.UserRepository
	workflows *WorkflowService
}

func NewFloorService(
	floorRepo repositories.FloorRepository,
	userRepo repositories.UserRepository,
	workflows *WorkflowService,
) *FloorService {
	return &FloorService{floorRepo: floorRepo, userRepo: userRepo, workflows: workflows}
}

func (s *FloorService) Create(ctx context.Context, actor Actor, req *dtos.CreateFloorRequest) (*models.Floor, error) {
	existing, err := s.floorRepo.GetByStoreAndNumber(ctx, actor.StoreID, req.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict,
			"a floor with this number already exists", utils.ErrDuplicateRecord)
	}

	floor := &models.Floor{
		ID:      uuid.New(),
		StoreID: actor.StoreID,
		Name:    req.Name,
		Number:  req.Number,
	}
	if err := s.floorRepo.Create(ctx, floor); err != nil {
		return nil, duplicateAsConflict(err, "a floor with this number already exists")
	}
	return floor, nil
}

func (s *FloorService) List(ctx context.Context, actor Actor) ([]*models.Floor, error) {
	return s.floorRepo.ListByStore(ctx, actor.StoreID)
}

// Assign puts a user in charge of a floor: immediate for roles holding
// ASSIGN, queued as FLOOR_ASSIGNMENT for roles that may only request it.
func (s *FloorService) Assign(ctx context.Context, actor Actor, req *dtos.AssignFloorRequest) (*models.ApprovalWorkflow, error) {
	change := models.FloorAssignmentChange{UserID: req.UserID, FloorID: req.FloorID}

	if err := s.checkAssignTargets(ctx, actor, change); err != nil {
		return nil, err
	}

	if authz.HasPermission(actor.Role, authz.ResourceFloors, authz.ActionAssign) {
		return nil, s.commitAssignment(ctx, actor, change)
	}
	return s.workflows.CreatePending(ctx, actor, models.ActionFloorAssignment, change, models.PriorityMedium)
}

// commitAssignment is also the executor target for approved
// FLOOR_ASSIGNMENT requests.
func (s *FloorService) commitAssignment(ctx context.Context, actor Actor, ch models.FloorAssignmentChange) error {
	if err := s.checkAssignTargets(ctx, actor, ch); err != nil {
		return err
	}

	entry := actor.auditEntry(models.AuditFloorAssigned, models.EntityFloor, ch.FloorID, nil, ch)
	if err := s.floorRepo.SetManagerWithAudit(ctx, ch.FloorID, ch.UserID, entry); err != nil {
		return err
	}
	return s.userRepo.UpdateWithRetry(ctx, ch.UserID, func(u *models.User) error {
		u.FloorID = &ch.FloorID
		return nil
	})
}

func (s *FloorService) checkAssignTargets(ctx context.Context, actor Actor, ch models.FloorAssignmentChange) error {
	floor, err := s.floorRepo.GetByID(ctx, ch.FloorID)
	if err != nil {
		return err
	}
	if floor == nil || floor.StoreID != actor.StoreID {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "floor not found", utils.ErrFloorNotFound)
	}

	user, err := s.userRepo.GetByID(ctx, ch.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.StoreID != actor.StoreID {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "user not found", utils.ErrUserNotFound)
	}
	return nil
}
