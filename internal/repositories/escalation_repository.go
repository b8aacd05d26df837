package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// EscalationFilter narrows List results.
type EscalationFilter struct {
	StoreID    *uuid.UUID
	Status     models.EscalationStatus
	AssigneeID *uuid.UUID
}

type EscalationRepository interface {
	CreateWithAudit(ctx context.Context, e *models.Escalation, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Escalation, error)
	List(ctx context.Context, filter EscalationFilter, limit, offset int) ([]*models.Escalation, int, error)

	// AdvanceWithAudit moves an escalation one step forward in its
	// lifecycle. The WHERE clause re-checks the expected status so a
	// concurrent advance loses with utils.ErrNoRowsUpdated.
	AdvanceWithAudit(ctx context.Context, e *models.Escalation, from models.EscalationStatus, entry *models.AuditLog) error

	// ListStaleOpen returns OPEN escalations older than the given age,
	// for the reminder sweep.
	ListStaleOpen(ctx context.Context, olderThan time.Duration) ([]*models.Escalation, error)
}

type escalationRepo struct {
	db TxDB
}

func NewEscalationRepository(db TxDB) EscalationRepository {
	return &escalationRepo{db: db}
}

func (r *escalationRepo) CreateWithAudit(ctx context.Context, e *models.Escalation, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO escalations (
				id, store_id, title, description, priority, status,
				requester_id, assignee_id, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW())
		`, e.ID, e.StoreID, e.Title, e.Description, e.Priority, e.Status,
			e.RequesterID, e.AssigneeID)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *escalationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Escalation, error) {
	row := r.db.QueryRow(ctx, baseSelectEscalation()+" WHERE id=$1", id)
	return scanEscalation(row)
}

func (r *escalationRepo) List(ctx context.Context, f EscalationFilter, limit, offset int) ([]*models.Escalation, int, error) {
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
	if f.AssigneeID != nil {
		add(" AND assignee_id=$", *f.AssigneeID)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM escalations"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := baseSelectEscalation() + where +
		" ORDER BY created_at DESC LIMIT $" + itoa(n+1) + " OFFSET $" + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Escalation
	for rows.Next() {
		e, err := scanEscalation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *escalationRepo) AdvanceWithAudit(ctx context.Context, e *models.Escalation, from models.EscalationStatus, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var resolvedAt *time.Time
		if e.Status == models.EscalationResolved {
			now := time.Now().UTC()
			resolvedAt = &now
			e.ResolvedAt = resolvedAt
		}
		tag, err := tx.Exec(ctx, `
			UPDATE escalations
			SET status=$3, assignee_id=$4,
			    resolved_at=COALESCE($5, resolved_at), updated_at=NOW()
			WHERE id=$1 AND status=$2
		`, e.ID, from, e.Status, e.AssigneeID, resolvedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *escalationRepo) ListStaleOpen(ctx context.Context, olderThan time.Duration) ([]*models.Escalation, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	rows, err := r.db.Query(ctx,
		baseSelectEscalation()+" WHERE status=$1 AND created_at < $2 ORDER BY created_at",
		models.EscalationOpen, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Escalation
	for rows.Next() {
		e, err := scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func baseSelectEscalation() string {
	return `
		SELECT id, store_id, title, description, priority, status,
		       requester_id, assignee_id, created_at, updated_at, resolved_at
		FROM escalations`
}

func scanEscalation(row pgx.Row) (*models.Escalation, error) {
	var e models.Escalation
	if err := row.Scan(
		&e.ID, &e.StoreID, &e.Title, &e.Description, &e.Priority, &e.Status,
		&e.RequesterID, &e.AssigneeID, &e.CreatedAt, &e.UpdatedAt, &e.ResolvedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
