package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.VehicleCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cats := make([]*models.VehicleCategory, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cats = append(cats, cloneCategory(c))
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats, nil
}

func (r *categoryRepo) Find(ctx context.Context, id int64) (*models.VehicleCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*models.VehicleCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, name) {
			return cloneCategory(c), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *categoryRepo) Add(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cat.ID = r.s.nextCategoryID
	r.s.nextCategoryID++
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now().UTC()
	}
	r.s.categories[cat.ID] = cloneCategory(cat)
	return cat, nil
}

func (r *categoryRepo) Update(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[cat.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cat.CreatedAt = existing.CreatedAt
	r.s.categories[cat.ID] = cloneCategory(cat)
	return cat, nil
}

func (r *categoryRepo) Remove(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}
