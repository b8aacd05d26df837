package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/models"
)

// AuditLogFilter narrows List results. Zero values mean "no filter".
type AuditLogFilter struct {
	UserID     *uuid.UUID
	EntityType models.AuditEntityType
	EntityID   *uuid.UUID
	Action     string
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter, limit, offset int) ([]*models.AuditLog, int, error)
}

type auditLogRepo struct {
	db DB
}

func NewAuditLogRepository(db DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

// insertAuditLog is shared with the repositories that append an audit row
// inside the same transaction as the business write.
func insertAuditLog(ctx context.Context, db DB, e *models.AuditLog) error {
	q := `
        INSERT INTO audit_logs (
            id, user_id, action, entity_type, entity_id,
            old_data, new_data, ip_address, user_agent, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW())
    `
	_, err := db.Exec(ctx, q,
		e.ID, e.UserID, e.Action, e.EntityType, e.EntityID,
		e.OldData, e.NewData, e.IPAddress, e.UserAgent,
	)
	return err
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return insertAuditLog(ctx, r.db, entry)
}

func (r *auditLogRepo) List(ctx context.Context, f AuditLogFilter, limit, offset int) ([]*models.AuditLog, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	n := 0
	add := func(cond string, v any) {
		n++
		args = append(args, v)
		where += cond + itoa(n)
	}
	if f.UserID != nil {
		add(" AND user_id=$", *f.UserID)
	}
	if f.EntityType != "" {
		add(" AND entity_type=$", f.EntityType)
	}
	if f.EntityID != nil {
		add(" AND entity_id=$", *f.EntityID)
	}
	if f.Action != "" {
		add(" AND action=$", f.Action)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
        SELECT id, user_id, action, entity_type, entity_id,
               old_data, new_data, ip_address, user_agent, created_at
        FROM audit_logs` + where +
		" ORDER BY created_at DESC LIMIT $" + itoa(n+1) + " OFFSET $" + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID,
			&e.OldData, &e.NewData, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &e)
	}
	return out, total, rows.Err()
}
