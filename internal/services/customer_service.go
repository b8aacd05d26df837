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

type CustomerService struct {
	customerRepo repositories.CustomerRepository
	workflows    *WorkflowService
}

func NewCustomerService(customerRepo repositories.CustomerRepository, workflows *WorkflowService) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, workflows: workflows}
}

func (s *CustomerService) Create(ctx context.Context, actor Actor, req *dtos.CreateCustomerRequest) (*models.Customer, *models.ApprovalWorkflow, error) {
	existing, err := s.customerRepo.GetByPhone(ctx, actor.StoreID, req.Phone)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict,
			"a customer with this phone already exists", utils.ErrDuplicateRecord)
	}

	value := models.CustomerValueRegular
	if req.CustomerValue != "" {
		value = models.CustomerValueType(req.CustomerValue)
	}
	customer := &models.Customer{
		ID:            uuid.New(),
		StoreID:       actor.StoreID,
		FloorID:       req.FloorID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		CustomerValue: value,
		Notes:         req.Notes,
	}

	if authz.MustForcePending(actor.Role, authz.ResourceCustomers, authz.ActionCreate) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionCustomerCreate,
			models.CustomerChange{New: customer}, models.PriorityMedium)
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	if err := s.commitCreate(ctx, actor, customer); err != nil {
		return nil, nil, err
	}
	return customer, nil, nil
}

func (s *CustomerService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dtos.UpdateCustomerRequest) (*models.Customer, *models.ApprovalWorkflow, error) {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if current.RowVersion != req.RowVersion {
		return nil, nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"customer was modified by someone else", utils.ErrRowVersionConflict)
	}

	proposed := *current
	proposed.FirstName = req.FirstName
	proposed.LastName = req.LastName
	proposed.Email = req.Email
	proposed.Phone = req.Phone
	proposed.Address = req.Address
	proposed.City = req.City
	proposed.CustomerValue = models.CustomerValueType(req.CustomerValue)
	proposed.FloorID = req.FloorID
	proposed.Notes = req.Notes

	// High-value customers get an extra set of eyes on every edit,
	// including the edit that marks them high-value in the first place.
	data := ActionData{CustomerValue: current.CustomerValue}
	if proposed.CustomerValue == models.CustomerValueHighValue {
		data.CustomerValue = proposed.CustomerValue
	}
	if RequiresApproval(models.ActionCustomerUpdate, data) ||
		authz.MustForcePending(actor.Role, authz.ResourceCustomers, authz.ActionUpdate) {
		wf, err := s.workflows.CreatePending(ctx, actor, models.ActionCustomerUpdate,
			models.CustomerChange{Old: current, New: &proposed}, models.PriorityMedium)
		if err != nil {
			return nil, nil, err
		}
		return nil, wf, nil
	}

	if err := s.commitUpdate(ctx, actor, &proposed); err != nil {
		return nil, nil, err
	}
	return &proposed, nil, nil
}

func (s *CustomerService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	current, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	entry := actor.auditEntry(models.AuditCustomerDeleted, models.EntityCustomer, current.ID, current, nil)
	return s.customerRepo.SoftDeleteWithAudit(ctx, current.ID, entry)
}

func (s *CustomerService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Customer, error) {
	return s.getOwned(ctx, actor, id)
}

func (s *CustomerService) List(ctx context.Context, actor Actor, limit, offset int) ([]*models.Customer, int, error) {
	return s.customerRepo.ListByStore(ctx, actor.StoreID, limit, offset)
}

func (s *CustomerService) commitCreate(ctx context.Context, actor Actor, c *models.Customer) error {
	entry := actor.auditEntry(models.AuditCustomerCreated, models.EntityCustomer, c.ID, nil, c)
	if err := s.customerRepo.CreateWithAudit(ctx, c, entry); err != nil {
		return duplicateAsConflict(err, "a customer with this phone already exists")
	}
	return nil
}

func (s *CustomerService) commitUpdate(ctx context.Context, actor Actor, c *models.Customer) error {
	old, err := s.customerRepo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "customer not found", utils.ErrCustomerNotFound)
	}
	entry := actor.auditEntry(models.AuditCustomerUpdated, models.EntityCustomer, c.ID, old, c)
	return s.customerRepo.UpdateWithAudit(ctx, c, entry)
}

func (s *CustomerService) getOwned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Customer, error) {
	c, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.StoreID != actor.StoreID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "customer not found", utils.ErrCustomerNotFound)
	}
	return c, nil
}
