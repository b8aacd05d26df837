package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error)
}

type categoryRepo struct {
	db DB
}

func NewCategoryRepository(db DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, store_id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4, NOW(), NOW())
	`, c.ID, c.StoreID, c.Name, c.Description)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := r.db.QueryRow(ctx, baseSelectCategory()+" WHERE id=$1", id)
	return scanCategory(row)
}

func (r *categoryRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, baseSelectCategory()+" WHERE store_id=$1 ORDER BY name", storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func baseSelectCategory() string {
	return `SELECT id, store_id, name, description, created_at, updated_at FROM categories`
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
