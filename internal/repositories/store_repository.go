package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
)

type StoreRepository interface {
	Create(ctx context.Context, s *models.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListAll(ctx context.Context) ([]*models.Store, error)
}

type storeRepo struct {
	db DB
}

func NewStoreRepository(db DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, s *models.Store) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, name, address, city, state, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW())
	`, s.ID, s.Name, s.Address, s.City, s.State, s.Phone)
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	row := r.db.QueryRow(ctx, baseSelectStore()+" WHERE id=$1", id)
	return scanStore(row)
}

func (r *storeRepo) ListAll(ctx context.Context) ([]*models.Store, error) {
	rows, err := r.db.Query(ctx, baseSelectStore()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func baseSelectStore() string {
	return `SELECT id, name, address, city, state, phone, created_at, updated_at FROM stores`
}

func scanStore(row pgx.Row) (*models.Store, error) {
	var s models.Store
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
