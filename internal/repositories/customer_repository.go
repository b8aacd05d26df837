package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type CustomerRepository interface {
	CreateWithAudit(ctx context.Context, c *models.Customer, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*models.Customer, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Customer, int, error)
	UpdateWithAudit(ctx context.Context, c *models.Customer, entry *models.AuditLog) error
	UpdateIfVersion(ctx context.Context, c *models.Customer, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Customer) error) error
	SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error
}

type customerRepo struct {
	*BaseVersionedRepo[*models.Customer]
	db TxDB
}

func NewCustomerRepository(db TxDB) CustomerRepository {
	r := &customerRepo{db: db}
	selectStmt := baseSelectCustomer() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo[*models.Customer](db, selectStmt, scanCustomer)
	return r
}

func (r *customerRepo) CreateWithAudit(ctx context.Context, c *models.Customer, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO customers (
				id, store_id, floor_id, first_name, last_name, email, phone,
				address, city, customer_value, total_purchases, notes,
				created_at, updated_at, row_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW(), NOW(), 1)
		`, c.ID, c.StoreID, c.FloorID, c.FirstName, c.LastName, c.Email, c.Phone,
			c.Address, c.City, c.CustomerValue, c.TotalPurchases, c.Notes)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *customerRepo) GetByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*models.Customer, error) {
	row := r.db.QueryRow(ctx,
		baseSelectCustomer()+" WHERE store_id=$1 AND phone=$2 AND deleted_at IS NULL", storeID, phone)
	return scanCustomer(row)
}

func (r *customerRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Customer, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM customers WHERE store_id=$1 AND deleted_at IS NULL", storeID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		baseSelectCustomer()+" WHERE store_id=$1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *customerRepo) UpdateWithAudit(ctx context.Context, c *models.Customer, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := updateCustomer(ctx, tx, c, false, 0)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *customerRepo) UpdateIfVersion(ctx context.Context, c *models.Customer, expected int64) (pgconn.CommandTag, error) {
	return updateCustomer(ctx, r.db, c, true, expected)
}

func (r *customerRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Customer) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *customerRepo) SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE customers SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func updateCustomer(ctx context.Context, db DB, c *models.Customer, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE customers SET
			floor_id=$1, first_name=$2, last_name=$3, email=$4, phone=$5,
			address=$6, city=$7, customer_value=$8, total_purchases=$9,
			notes=$10, updated_at=NOW()
	`
	args := []any{
		c.FloorID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address, c.City, c.CustomerValue, c.TotalPurchases, c.Notes,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$11 AND row_version=$12 AND deleted_at IS NULL`
		args = append(args, c.ID, expected)
	} else {
		sql += `, row_version=row_version+1 WHERE id=$11 AND deleted_at IS NULL`
		args = append(args, c.ID)
	}
	return db.Exec(ctx, sql, args...)
}

func baseSelectCustomer() string {
	return `
		SELECT id, store_id, floor_id, first_name, last_name, email, phone,
		       address, city, customer_value, total_purchases, notes,
		       created_at, updated_at, row_version, deleted_at
		FROM customers`
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(
		&c.ID, &c.StoreID, &c.FloorID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.CustomerValue, &c.TotalPurchases, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt, &c.RowVersion, &c.DeletedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
