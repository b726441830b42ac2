package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type customerRepo struct {
	s *Store
}

func (r *customerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	return r.filter(func(*models.Customer) bool { return true }), nil
}

func (r *customerRepo) ListByStatus(ctx context.Context, status models.CustomerStatus) ([]*models.Customer, error) {
	return r.filter(func(c *models.Customer) bool { return c.Status == status }), nil
}

func (r *customerRepo) filter(keep func(*models.Customer) bool) []*models.Customer {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customers := make([]*models.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if keep(c) {
			customers = append(customers, cloneCustomer(c))
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers
}

func (r *customerRepo) Find(ctx context.Context, id int64) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneCustomer(c), nil
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return r.findFirst(func(c *models.Customer) bool { return c.Phone == phone })
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.findFirst(func(c *models.Customer) bool { return strings.EqualFold(c.Email, email) })
}

func (r *customerRepo) findFirst(match func(*models.Customer) bool) (*models.Customer, error) {
	found := r.filter(match)
	if len(found) == 0 {
		return nil, storage.ErrNotFound
	}
	return found[0], nil
}

func (r *customerRepo) Add(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customer.ID = r.s.nextCustomerID
	r.s.nextCustomerID++
	now := time.Now().UTC()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	r.s.customers[customer.ID] = cloneCustomer(customer)
	return customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.customers[customer.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = time.Now().UTC()
	r.s.customers[customer.ID] = cloneCustomer(customer)
	return customer, nil
}

func (r *customerRepo) Remove(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}
