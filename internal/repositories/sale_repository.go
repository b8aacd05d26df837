package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type SaleRepository interface {
	CreateWithAudit(ctx context.Context, s *models.Sale, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, int, error)
	UpdateWithAudit(ctx context.Context, s *models.Sale, entry *models.AuditLog) error
	UpdateIfVersion(ctx context.Context, s *models.Sale, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Sale) error) error
	SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error
}

type saleRepo struct {
	*BaseVersionedRepo[*models.Sale]
	db TxDB
}

func NewSaleRepository(db TxDB) SaleRepository {
	r := &saleRepo{db: db}
	selectStmt := baseSelectSale() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo[*models.Sale](db, selectStmt, scanSale)
	return r
}

func (r *saleRepo) CreateWithAudit(ctx context.Context, s *models.Sale, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO sales (
				id, store_id, customer_id, product_id, salesperson_id,
				quantity, unit_price, discount_percentage, total_amount,
				payment_method, sale_date, created_at, updated_at, row_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW(), NOW(), 1)
		`, s.ID, s.StoreID, s.CustomerID, s.ProductID, s.SalespersonID,
			s.Quantity, s.UnitPrice, s.DiscountPercentage, s.TotalAmount,
			s.PaymentMethod, s.SaleDate)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *saleRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales WHERE store_id=$1 AND deleted_at IS NULL", storeID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		baseSelectSale()+" WHERE store_id=$1 AND deleted_at IS NULL ORDER BY sale_date DESC LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *saleRepo) UpdateWithAudit(ctx context.Context, s *models.Sale, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := updateSale(ctx, tx, s, false, 0)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *saleRepo) UpdateIfVersion(ctx context.Context, s *models.Sale, expected int64) (pgconn.CommandTag, error) {
	return updateSale(ctx, r.db, s, true, expected)
}

func (r *saleRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Sale) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *saleRepo) SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE sales SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func updateSale(ctx context.Context, db DB, s *models.Sale, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE sales SET
			customer_id=$1, product_id=$2, salesperson_id=$3,
			quantity=$4, unit_price=$5, discount_percentage=$6,
			total_amount=$7, payment_method=$8, sale_date=$9, updated_at=NOW()
	`
	args := []any{
		s.CustomerID, s.ProductID, s.SalespersonID,
		s.Quantity, s.UnitPrice, s.DiscountPercentage,
		s.TotalAmount, s.PaymentMethod, s.SaleDate,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$10 AND row_version=$11 AND deleted_at IS NULL`
		args = append(args, s.ID, expected)
	} else {
		sql += `, row_version=row_version+1 WHERE id=$10 AND deleted_at IS NULL`
		args = append(args, s.ID)
	}
	return db.Exec(ctx, sql, args...)
}

func baseSelectSale() string {
	return `
		SELECT id, store_id, customer_id, product_id, salesperson_id,
		       quantity, unit_price, discount_percentage, total_amount,
		       payment_method, sale_date,
		       created_at, updated_at, row_version, deleted_at
		FROM sales`
}

func scanSale(row pgx.Row) (*models.Sale, error) {
	var s models.Sale
	if err := row.Scan(
		&s.ID, &s.StoreID, &s.CustomerID, &s.ProductID, &s.SalespersonID,
		&s.Quantity, &s.UnitPrice, &s.DiscountPercentage, &s.TotalAmount,
		&s.PaymentMethod, &s.SaleDate,
		&s.CreatedAt, &s.UpdatedAt, &s.RowVersion, &s.DeletedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
