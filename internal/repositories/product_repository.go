package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type ProductRepository interface {
	CreateWithAudit(ctx context.Context, p *models.Product, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*models.Product, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Product, int, error)
	UpdateWithAudit(ctx context.Context, p *models.Product, entry *models.AuditLog) error
	UpdateIfVersion(ctx context.Context, p *models.Product, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Product) error) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error
}

type productRepo struct {
	*BaseVersionedRepo[*models.Product]
	db TxDB
}

func NewProductRepository(db TxDB) ProductRepository {
	r := &productRepo{db: db}
	selectStmt := baseSelectProduct() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo[*models.Product](db, selectStmt, scanProduct)
	return r
}

func (r *productRepo) CreateWithAudit(ctx context.Context, p *models.Product, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (
				id, store_id, category_id, floor_id, sku, name, description,
				metal_type, purity, weight_grams, price, stock_quantity,
				created_at, updated_at, row_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW(), NOW(), 1)
		`, p.ID, p.StoreID, p.CategoryID, p.FloorID, p.SKU, p.Name, p.Description,
			p.MetalType, p.Purity, p.WeightGrams, p.Price, p.StockQuantity)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *productRepo) GetBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*models.Product, error) {
	row := r.db.QueryRow(ctx,
		baseSelectProduct()+" WHERE store_id=$1 AND sku=$2 AND deleted_at IS NULL", storeID, sku)
	return scanProduct(row)
}

func (r *productRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Product, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM products WHERE store_id=$1 AND deleted_at IS NULL", storeID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		baseSelectProduct()+" WHERE store_id=$1 AND deleted_at IS NULL ORDER BY name LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *productRepo) UpdateWithAudit(ctx context.Context, p *models.Product, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := updateProduct(ctx, tx, p, false, 0)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func (r *productRepo) UpdateIfVersion(ctx context.Context, p *models.Product, expected int64) (pgconn.CommandTag, error) {
	return updateProduct(ctx, r.db, p, true, expected)
}

func (r *productRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Product) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock_quantity = stock_quantity + $2, updated_at=NOW()
		WHERE id=$1 AND deleted_at IS NULL AND stock_quantity + $2 >= 0
	`, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *productRepo) SoftDeleteWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditLog) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE products SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return utils.ErrNoRowsUpdated
		}
		return insertAuditLog(ctx, tx, entry)
	})
}

func updateProduct(ctx context.Context, db DB, p *models.Product, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE products SET
			category_id=$1, floor_id=$2, sku=$3, name=$4, description=$5,
			metal_type=$6, purity=$7, weight_grams=$8, price=$9,
			stock_quantity=$10, updated_at=NOW()
	`
	args := []any{
		p.CategoryID, p.FloorID, p.SKU, p.Name, p.Description,
		p.MetalType, p.Purity, p.WeightGrams, p.Price, p.StockQuantity,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$11 AND row_version=$12 AND deleted_at IS NULL`
		args = append(args, p.ID, expected)
	} else {
		sql += `, row_version=row_version+1 WHERE id=$11 AND deleted_at IS NULL`
		args = append(args, p.ID)
	}
	return db.Exec(ctx, sql, args...)
}

func baseSelectProduct() string {
	return `
		SELECT id, store_id, category_id, floor_id, sku, name, description,
		       metal_type, purity, weight_grams, price, stock_quantity,
		       created_at, updated_at, row_version, deleted_at
		FROM products`
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(
		&p.ID, &p.StoreID, &p.CategoryID, &p.FloorID, &p.SKU, &p.Name, &p.Description,
		&p.MetalType, &p.Purity, &p.WeightGrams, &p.Price, &p.StockQuantity,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion, &p.DeletedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
