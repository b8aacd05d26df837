package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/sarkar-crm/crm-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.User, int, error)
	ListAdmins(ctx context.Context, storeID uuid.UUID) ([]*models.User, error)
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	selectStmt := baseSelectUser() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo[*models.User](db, selectStmt, scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, store_id, floor_id, email, password_hash,
			first_name, last_name, role, is_active,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
	`, u.ID, u.StoreID, u.FloorID, u.Email, u.PasswordHash,
		u.FirstName, u.LastName, u.Role, u.IsActive)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	return scanUser(row)
}

func (r *userRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE store_id=$1", storeID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		baseSelectUser()+" WHERE store_id=$1 ORDER BY created_at LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) ListAdmins(ctx context.Context, storeID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Query(ctx,
		baseSelectUser()+" WHERE store_id=$1 AND role=$2 AND is_active", storeID, models.RoleBusinessAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE users SET
			floor_id=$1, email=$2, first_name=$3, last_name=$4, role=$5,
			is_active=$6, updated_at=NOW(), row_version=row_version+1
		WHERE id=$7 AND row_version=$8
	`, u.FloorID, u.Email, u.FirstName, u.LastName, u.Role,
		u.IsActive, u.ID, expected)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectUser() string {
	return `
		SELECT id, store_id, floor_id, email, password_hash,
		       first_name, last_name, role, is_active,
		       created_at, updated_at, row_version
		FROM users`
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.StoreID, &u.FloorID, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
