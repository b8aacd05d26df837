package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// ApprovalWorkflowFilter narrows List results.
type ApprovalWorkflowFilter struct {
	StoreID    *uuid.UUID
	Status     models.ApprovalStatus
	ActionType models.ActionType
}

// ApprovalWorkflowRepository persists deferred-mutation requests.
// Request creation and resolution are always paired with their audit-log
// append in a single transaction.
type ApprovalWorkflowRepository interface {
	CreateWithAudit(ctx context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ApprovalWorkflow, error)
	List(ctx context.Context, filter ApprovalWorkflowFilter, limit, offset int) ([]*models.ApprovalWorkflow, int, error)
	ListPending(ctx context.Context) ([]*models.ApprovalWorkflow, error)

	// ResolveWithAudit moves a PENDING request into a terminal status.
	// Returns utils.ErrNoRowsUpdated when the row is missing or no
	// longer PENDING, leaving the caller to distinguish the two.
	ResolveWithAudit(ctx context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error

	// MarkExecutionFailedWithAudit compensates an APPROVED request whose
	// deferred mutation could not be applied.
	MarkExecutionFailedWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error

	// BumpPriorityWithAudit raises the priority band of a PENDING request.
	BumpPriorityWithAudit(ctx context.Context, id uuid.UUID, to models.PriorityType, entry *models.AuditLog) error
}

type approvalWorkflowRepo struct {
	db TxDB
}

func NewApprovalWorkflowRepository(db TxDB) ApprovalWorkflowRepository {
	return &approvalWorkflowRepo{db: db}
}

func (r *approvalWorkflowRepo) CreateWithAudit(ctx context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO approval_workflows (
				id, store_id, action_type, requester_id, status,
				request_data, priority, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW())
		`, wf.ID, wf.StoreID, wf.ActionType, wf.RequesterID, wf.Status,
			wf.RequestData, wf.Priority)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *approvalWorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ApprovalWorkflow, error) {
	row := r.db.QueryRow(ctx, baseSelectApproval()+" WHERE id=$1", id)
	return scanApproval(row)
}

func (r *approvalWorkflowRepo) List(ctx context.Context, f ApprovalWorkflowFilter, limit, offset int) ([]*models.ApprovalWorkflow, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	n := 0
	add := func(cond string, v any) {
		n++
		args = append(args, v)
		where += cond + itoa(n)
	}
	if f.StoreID != nil {
		add(" AND store_id=$", *f.StoreID)
	}
	if f.Status != "" {
		add(" AND status=$", f.Status)
	}
	if f.ActionType != "" {
		add(" AND action_type=$", f.ActionType)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM approval_workflows"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := baseSelectApproval() + where +
		" ORDER BY created_at DESC LIMIT $" + itoa(n+1) + " OFFSET $" + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.ApprovalWorkflow
	for rows.Next() {
		wf, err := scanApproval(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, wf)
	}
	return out, total, rows.Err()
}

func (r *approvalWorkflowRepo) ListPending(ctx context.Context) ([]*models.ApprovalWorkflow, error) {
	rows, err := r.db.Query(ctx, baseSelectApproval()+" WHERE status=$1 ORDER BY created_at", models.ApprovalPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ApprovalWorkflow
	for rows.Next() {
		wf, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wf)
	}
	return out, rows.Err()
}

func (r *approvalWorkflowRepo) ResolveWithAudit(ctx context.Context, wf *models.ApprovalWorkflow, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var approvedAt *time.Time
		if wf.Status == models.ApprovalApproved {
			now := time.Now().UTC()
			approvedAt = &now
			wf.ApprovedAt = approvedAt
		}
		tag, err := tx.Exec(ctx, `
			UPDATE approval_workflows
			SET status=$2, approver_id=$3, approval_notes=$4,
			    approved_at=COALESCE($5, approved_at), updated_at=NOW()
			WHERE id=$1 AND status='PENDING'
		`, wf.ID, wf.Status, wf.ApproverID, wf.ApprovalNotes, approvedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *approvalWorkflowRepo) MarkExecutionFailedWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE approval_workflows
			SET status=$2, updated_at=NOW()
			WHERE id=$1 AND status='APPROVED'
		`, id, models.ApprovalExecutionFailed)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *approvalWorkflowRepo) BumpPriorityWithAudit(ctx context.Context, id uuid.UUID, to models.PriorityType, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE approval_workflows
			SET priority=$2, updated_at=NOW()
			WHERE id=$1 AND status='PENDING'
		`, id, to)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func baseSelectApproval() string {
	return `
		SELECT id, store_id, action_type, requester_id, approver_id, status,
		       request_data, approval_notes, priority,
		       created_at, updated_at, approved_at
		FROM approval_workflows`
}

func scanApproval(row pgx.Row) (*models.ApprovalWorkflow, error) {
	var wf models.ApprovalWorkflow
	if err := row.Scan(
		&wf.ID, &wf.StoreID, &wf.ActionType, &wf.RequesterID, &wf.ApproverID,
		&wf.Status, &wf.RequestData, &wf.ApprovalNotes, &wf.Priority,
		&wf.CreatedAt, &wf.UpdatedAt, &wf.ApprovedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}
