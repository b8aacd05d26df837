// Package testhelpers provides in-memory repository fakes for service
// and controller tests. Fakes honor the same contracts as the SQL
// repositories: composite writes append to the shared audit slice
// atomically, status-guarded updates fail with utils.ErrNoRowsUpdated,
// and optimistic-version updates check row_version.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// Store is one shared in-memory dataset backing all fakes, so tests see
// cross-repository effects (e.g. a sale insert plus its audit row).
type Store struct {
	mu sync.Mutex

	Stores      map[uuid.UUID]*models.Store
	Floors      map[uuid.UUID]*models.Floor
	Categories  map[uuid.UUID]*models.Category
	Products    map[uuid.UUID]*models.Product
	Customers   map[uuid.UUID]*models.Customer
	Users       map[uuid.UUID]*models.User
	Sales       map[uuid.UUID]*models.Sale
	Workflows   map[uuid.UUID]*models.ApprovalWorkflow
	Escalations map[uuid.UUID]*models.Escalation
	AuditLog    []*models.AuditLog

	// FailNextWrite makes the next composite write return this error,
	// for exercising compensation paths.
	FailNextWrite error
}

func NewStore() *Store {
	return &Store{
		Stores:      map[uuid.UUID]*models.Store{},
		Floors:      map[uuid.UUID]*models.Floor{},
		Categories:  map[uuid.UUID]*models.Category{},
		Products:    map[uuid.UUID]*models.Product{},
		Customers:   map[uuid.UUID]*models.Customer{},
		Users:       map[uuid.UUID]*models.User{},
		Sales:       map[uuid.UUID]*models.Sale{},
		Workflows:   map[uuid.UUID]*models.ApprovalWorkflow{},
		Escalations: map[uuid.UUID]*models.Escalation{},
	}
}

func (s *Store) takeFailure() error {
	err := s.FailNextWrite
	s.FailNextWrite = nil
	return err
}

// AuditActions returns the action tags appended so far, in order.
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.AuditLog))
	for _, e := range s.AuditLog {
		out = append(out, e.Action)
	}
	return out
}

func (s *Store) appendAudit(entry *models.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.AuditLog = append(s.AuditLog, entry)
}

func updatedTag() (pgconn.CommandTag, error) { return pgconn.CommandTag("UPDATE 1"), nil }
func noRowsTag() (pgconn.CommandTag, error)  { return pgconn.CommandTag("UPDATE 0"), nil }

// ---------------------------------------------------------------------------
// StoreRepository

type FakeStoreRepo struct{ S *Store }

var _ repositories.StoreRepository = (*FakeStoreRepo)(nil)

func (r *FakeStoreRepo) Create(_ context.Context, st *models.Store) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Stores[st.ID] = st
	return nil
}

func (r *FakeStoreRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return r.S.Stores[id], nil
}

func (r *FakeStoreRepo) ListAll(_ context.Context) ([]*models.Store, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Store{}
	for _, st := range r.S.Stores {
		out = append(out, st)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// FloorRepository

type FakeFloorRepo struct{ S *Store }

var _ repositories.FloorRepository = (*FakeFloorRepo)(nil)

func (r *FakeFloorRepo) Create(_ context.Context, f *models.Floor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if f.RowVersion == 0 {
		f.RowVersion = 1
	}
	r.S.Floors[f.ID] = f
	return nil
}

func (r *FakeFloorRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Floor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	f, ok := r.S.Floors[id]
	if !ok || f.DeletedAt != nil {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *FakeFloorRepo) GetByStoreAndNumber(_ context.Context, storeID uuid.UUID, number int16) (*models.Floor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, f := range r.S.Floors {
		if f.StoreID == storeID && f.Number == number && f.DeletedAt == nil {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeFloorRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]*models.Floor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Floor{}
	for _, f := range r.S.Floors {
		if f.StoreID == storeID && f.DeletedAt == nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FakeFloorRepo) Update(_ context.Context, f *models.Floor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Floors[f.ID] = f
	return nil
}

func (r *FakeFloorRepo) UpdateIfVersion(_ context.Context, f *models.Floor, expected int64) (pgconn.CommandTag, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Floors[f.ID]
	if !ok || cur.RowVersion != expected {
		return noRowsTag()
	}
	f.RowVersion = expected + 1
	r.S.Floors[f.ID] = f
	return updatedTag()
}

func (r *FakeFloorRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Floor) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	f, ok := r.S.Floors[id]
	if !ok {
		return utils.ErrFloorNotFound
	}
	if err := mutate(f); err != nil {
		return err
	}
	f.RowVersion++
	return nil
}

func (r *FakeFloorRepo) SetManagerWithAudit(_ context.Context, id uuid.UUID, managerID uuid.UUID, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	f, ok := r.S.Floors[id]
	if !ok {
		return utils.ErrFloorNotFound
	}
	f.ManagerID = &managerID
	f.RowVersion++
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeFloorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if f, ok := r.S.Floors[id]; ok {
		now := time.Now().UTC()
		f.DeletedAt = &now
	}
	return nil
}

// ---------------------------------------------------------------------------
// CategoryRepository

type FakeCategoryRepo struct{ S *Store }

var _ repositories.CategoryRepository = (*FakeCategoryRepo)(nil)

func (r *FakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Categories[c.ID] = c
	return nil
}

func (r *FakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	return r.S.Categories[id], nil
}

func (r *FakeCategoryRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]*models.Category, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Category{}
	for _, c := range r.S.Categories {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// ProductRepository

type FakeProductRepo struct{ S *Store }

var _ repositories.ProductRepository = (*FakeProductRepo)(nil)

func (r *FakeProductRepo) CreateWithAudit(_ context.Context, p *models.Product, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	if p.RowVersion == 0 {
		p.RowVersion = 1
	}
	r.S.Products[p.ID] = p
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *FakeProductRepo) GetBySKU(_ context.Context, storeID uuid.UUID, sku string) (*models.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Products {
		if p.StoreID == storeID && p.SKU == sku && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeProductRepo) ListByStore(_ context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Product, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Product{}
	for _, p := range r.S.Products {
		if p.StoreID == storeID && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeProductRepo) UpdateWithAudit(_ context.Context, p *models.Product, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	p.RowVersion++
	r.S.Products[p.ID] = p
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeProductRepo) UpdateIfVersion(_ context.Context, p *models.Product, expected int64) (pgconn.CommandTag, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Products[p.ID]
	if !ok || cur.RowVersion != expected {
		return noRowsTag()
	}
	p.RowVersion = expected + 1
	r.S.Products[p.ID] = p
	return updatedTag()
}

func (r *FakeProductRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Product) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return utils.ErrProductNotFound
	}
	if err := mutate(p); err != nil {
		return err
	}
	p.RowVersion++
	return nil
}

func (r *FakeProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return utils.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return fmt.Errorf("stock for %s would go negative", id)
	}
	p.StockQuantity += delta
	return nil
}

func (r *FakeProductRepo) SoftDeleteWithAudit(_ context.Context, id uuid.UUID, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return utils.ErrProductNotFound
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	r.S.appendAudit(entry)
	return nil
}

// ---------------------------------------------------------------------------
// CustomerRepository

type FakeCustomerRepo struct{ S *Store }

var _ repositories.CustomerRepository = (*FakeCustomerRepo)(nil)

func (r *FakeCustomerRepo) CreateWithAudit(_ context.Context, c *models.Customer, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	if c.RowVersion == 0 {
		c.RowVersion = 1
	}
	r.S.Customers[c.ID] = c
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c, ok := r.S.Customers[id]
	if !ok || c.DeletedAt != nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *FakeCustomerRepo) GetByPhone(_ context.Context, storeID uuid.UUID, phone string) (*models.Customer, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, c := range r.S.Customers {
		if c.StoreID == storeID && c.Phone == phone && c.DeletedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeCustomerRepo) ListByStore(_ context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Customer, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Customer{}
	for _, c := range r.S.Customers {
		if c.StoreID == storeID && c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeCustomerRepo) UpdateWithAudit(_ context.Context, c *models.Customer, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	c.RowVersion++
	r.S.Customers[c.ID] = c
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeCustomerRepo) UpdateIfVersion(_ context.Context, c *models.Customer, expected int64) (pgconn.CommandTag, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Customers[c.ID]
	if !ok || cur.RowVersion != expected {
		return noRowsTag()
	}
	c.RowVersion = expected + 1
	r.S.Customers[c.ID] = c
	return updatedTag()
}

func (r *FakeCustomerRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Customer) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c, ok := r.S.Customers[id]
	if !ok {
		return utils.ErrCustomerNotFound
	}
	if err := mutate(c); err != nil {
		return err
	}
	c.RowVersion++
	return nil
}

func (r *FakeCustomerRepo) SoftDeleteWithAudit(_ context.Context, id uuid.UUID, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	c, ok := r.S.Customers[id]
	if !ok {
		return utils.ErrCustomerNotFound
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	r.S.appendAudit(entry)
	return nil
}

// ---------------------------------------------------------------------------
// UserRepository

type FakeUserRepo struct{ S *Store }

var _ repositories.UserRepository = (*FakeUserRepo)(nil)

func (r *FakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if u.RowVersion == 0 {
		u.RowVersion = 1
	}
	r.S.Users[u.ID] = u
	return nil
}

func (r *FakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	u, ok := r.S.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) ListByStore(_ context.Context, storeID uuid.UUID, limit, offset int) ([]*models.User, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.S.Users {
		if u.StoreID == storeID {
			out = append(out, u)
		}
	}
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeUserRepo) ListAdmins(_ context.Context, storeID uuid.UUID) ([]*models.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.S.Users {
		if u.StoreID == storeID && u.Role == models.RoleBusinessAdmin && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *FakeUserRepo) UpdateIfVersion(_ context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Users[u.ID]
	if !ok || cur.RowVersion != expected {
		return noRowsTag()
	}
	u.RowVersion = expected + 1
	r.S.Users[u.ID] = u
	return updatedTag()
}

func (r *FakeUserRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	u, ok := r.S.Users[id]
	if !ok {
		return utils.ErrUserNotFound
	}
	if err := mutate(u); err != nil {
		return err
	}
	u.RowVersion++
	return nil
}

// ---------------------------------------------------------------------------
// SaleRepository

type FakeSaleRepo struct{ S *Store }

var _ repositories.SaleRepository = (*FakeSaleRepo)(nil)

func (r *FakeSaleRepo) CreateWithAudit(_ context.Context, sale *models.Sale, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	if sale.RowVersion == 0 {
		sale.RowVersion = 1
	}
	r.S.Sales[sale.ID] = sale
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Sale, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	sale, ok := r.S.Sales[id]
	if !ok || sale.DeletedAt != nil {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *FakeSaleRepo) ListByStore(_ context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Sale, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []*models.Sale{}
	for _, sale := range r.S.Sales {
		if sale.StoreID == storeID && sale.DeletedAt == nil {
			out = append(out, sale)
		}
	}
	return paginate(out, limit, offset), len(out), nil
}

func (r *FakeSaleRepo) UpdateWithAudit(_ context.Context, sale *models.Sale, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.S.takeFailure(); err != nil {
		return err
	}
	sale.RowVersion++
	r.S.Sales[sale.ID] = sale
	r.S.appendAudit(entry)
	return nil
}

func (r *FakeSaleRepo) UpdateIfVersion(_ context.Context, sale *models.Sale, expected int64) (pgconn.CommandTag, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Sales[sale.ID]
	if !ok || cur.RowVersion != expected {
		return noRowsTag()
	}
	sale.RowVersion = expected + 1
	r.S.Sales[sale.ID] = sale
	return updatedTag()
}

func (r *FakeSaleRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Sale) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	sale, ok := r.S.Sales[id]
	if !ok {
		return utils.ErrSaleNotFound
	}
	if err := mutate(sale); err != nil {
		return err
	}
	sale.RowVersion++
	return nil
}

func (r *FakeSaleRepo) SoftDeleteWithAudit(_ context.Context, id uuid.UUID, entry *models.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	sale, ok := r.S.Sales[id]
	if !ok {
		return utils.ErrSaleNotFound
	}
	now := time.Now().UTC()
	sale.DeletedAt = &now
	r.S.appendAudit(entry)
	return nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	end := len(in)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return in[offset:end]
}
