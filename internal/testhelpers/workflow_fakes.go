package testhelpers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// ---------------------------------------------------------------------------
// ApprovalWorkflowRepository

type FakeWorkflowRepo struct{ S *Store }

var _ repositories.ApprovalWorkflowRepository = (*FakeWorkflowRepo)(nil)

func (r *FakeWorkflowRepo) CreateWithAudit(_ context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = time.Now().UTC()
	}
	r.S.Workflows[wf.ID] = wf
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeWorkflowRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ApprovalWorkflow, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	wf, ok := r.S.Workflows[id]
	if !ok {
		return nil, nil
	}
	cp := *wf
	return &cp, nil
}

func (r *FakeWorkflowRepo) List(_ context.Context, f repositories.ApprovalWorkflowFilter, limit, offset int) ([]*models.ApprovalWorkflow, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.ApprovalWorkflow{}
	for _, wf := range r.S.Workflows {
		if f.StoreID != nil && wf.StoreID != *f.StoreID {
			continue
		}
		if f.Status != "" && wf.Status != f.Status {
			continue
		}
		if f.ActionType != "" && wf.ActionType != f.ActionType {
			continue
		}
		out = append(out, wf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeWorkflowRepo) ListPending(_ context.Context) ([]*models.ApprovalWorkflow, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.ApprovalWorkflow{}
	for _, wf := range r.S.Workflows {
		if wf.Status == models.ApprovalPending {
			cp := *wf
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FakeWorkflowRepo) ResolveWithAudit(_ context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	cur, ok := r.S.Workflows[wf.ID]
	if !ok || cur.Status != models.ApprovalPending {
		return utils.ErrNoRowsUpdated
	}
	cur.Status = wf.Status
	cur.ApproverID = wf.ApproverID
	cur.ApprovalNotes = wf.ApprovalNotes
	if wf.Status == models.ApprovalApproved {
		now := time.Now().UTC()
		cur.ApprovedAt = &now
		wf.ApprovedAt = &now
	}
	cur.UpdatedAt = time.Now().UTC()
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeWorkflowRepo) MarkExecutionFailedWithAudit(_ context.Context, id uuid.UUID, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Workflows[id]
	if !ok || cur.Status != models.ApprovalApproved {
		return utils.ErrNoRowsUpdated
	}
	cur.Status = models.ApprovalExecutionFailed
	cur.UpdatedAt = time.Now().UTC()
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeWorkflowRepo) BumpPriorityWithAudit(_ context.Context, id uuid.UUID, to models.PriorityType, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Workflows[id]
	if !ok || cur.Status != models.ApprovalPending {
		return utils.ErrNoRowsUpdated
	}
	cur.Priority = to
	cur.UpdatedAt = time.Now().UTC()
	r.S.appendAudit(entry)
	return nil
}

// ---------------------------------------------------------------------------
// EscalationRepository

type FakeEscalationRepo struct{ S *Store }

var _ repositories.EscalationRepository = (*FakeEscalationRepo)(nil)

func (r *FakeEscalationRepo) CreateWithAudit(_ context.Context, e *models.Escalation, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.S.Escalations[e.ID] = e
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeEscalationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Escalation, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	e, ok := r.S.Escalations[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *FakeEscalationRepo) List(_ context.Context, f repositories.EscalationFilter, limit, offset int) ([]*models.Escalation, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Escalation{}
	for _, e := range r.S.Escalations {
		if f.StoreID != nil && e.StoreID != *f.StoreID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.AssigneeID != nil && (e.AssigneeID == nil || *e.AssigneeID != *f.AssigneeID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeEscalationRepo) AdvanceWithAudit(_ context.Context, e *models.Escalation, from models.EscalationStatus, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Escalations[e.ID]
	if !ok || cur.Status != from {
		return utils.ErrNoRowsUpdated
	}
	cur.Status = e.Status
	cur.AssigneeID = e.AssigneeID
	if e.Status == models.EscalationResolved && cur.ResolvedAt == nil {
		now := time.Now().UTC()
		cur.ResolvedAt = &now
	}
	cur.UpdatedAt = time.Now().UTC()
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeEscalationRepo) ListStaleOpen(_ context.Context, olderThan time.Duration) ([]*models.Escalation, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cutoff := time.Now().UTC().Add(-olderThan)
	out := []*models.Escalation{}
	for _, e := range r.S.Escalations {
		if e.Status == models.EscalationOpen && e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// AuditLogRepository

type FakeAuditRepo struct{ S *Store }

var _ repositories.AuditLogRepository = (*FakeAuditRepo)(nil)

func (r *FakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeAuditRepo) List(_ context.Context, f repositories.AuditLogFilter, limit, offset int) ([]*models.AuditLog, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.AuditLog{}
	for _, e := range r.S.AuditLog {
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != nil && e.EntityID != *f.EntityID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
	}
	return paginate(out, limit, offset), len(out), nil
}
