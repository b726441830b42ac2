package memory

import (
	"context"
	"sort"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) List(ctx context.Context) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	notes := make([]*models.Notification, 0, len(r.s.notes))
	for _, n := range r.s.notes {
		notes = append(notes, cloneNotification(n))
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	return notes, nil
}

func (r *notificationRepo) Find(ctx context.Context, id int64) (*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneNotification(n), nil
}

func (r *notificationRepo) Add(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = r.s.nextNoteID
	r.s.nextNoteID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.s.notes[n.ID] = cloneNotification(n)
	return n, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	n.Read = true
	return cloneNotification(n), nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	marked := 0
	for _, n := range r.s.notes {
		if !n.Read {
			n.Read = true
			marked++
		}
	}
	return marked, nil
}
