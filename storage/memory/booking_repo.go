package memory

import (
	"context"
	"sort"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type bookingRepo struct {
	s *Store
}

func (r *bookingRepo) List(ctx context.Context) ([]*models.Booking, error) {
	return r.filter(func(*models.Booking) bool { return true }), nil
}

func (r *bookingRepo) ListByStatus(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.Status == status }), nil
}

func (r *bookingRepo) filter(keep func(*models.Booking) bool) []*models.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		if keep(b) {
			bookings = append(bookings, cloneBooking(b))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings
}

func (r *bookingRepo) Find(ctx context.Context, id int64) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *bookingRepo) Add(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking.ID = r.s.nextBookingID
	r.s.nextBookingID++
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = cloneBooking(booking)
	return booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.bookings[booking.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	booking.CreatedAt = existing.CreatedAt
	booking.UpdatedAt = time.Now().UTC()
	r.s.bookings[booking.ID] = cloneBooking(booking)
	return booking, nil
}

func (r *bookingRepo) Remove(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.bookings, id)
	return nil
}
