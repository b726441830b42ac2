package memory

import (
	"context"
	"sort"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type cityRepo struct {
	s *Store
}

func (r *cityRepo) List(ctx context.Context) ([]*models.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cities := make([]*models.City, 0, len(r.s.cities))
	for _, c := range r.s.cities {
		cities = append(cities, cloneCity(c))
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].ID < cities[j].ID })
	return cities, nil
}

func (r *cityRepo) Find(ctx context.Context, id int64) (*models.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cities[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneCity(c), nil
}

func (r *cityRepo) Add(ctx context.Context, city *models.City) (*models.City, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	city.ID = r.s.nextCityID
	r.s.nextCityID++
	if city.CreatedAt.IsZero() {
		city.CreatedAt = time.Now().UTC()
	}
	r.s.cities[city.ID] = cloneCity(city)
	return city, nil
}

func (r *cityRepo) Update(ctx context.Context, city *models.City) (*models.City, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.cities[city.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	city.CreatedAt = existing.CreatedAt
	r.s.cities[city.ID] = cloneCity(city)
	return city, nil
}

func (r *cityRepo) Remove(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cities[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.cities, id)
	return nil
}
