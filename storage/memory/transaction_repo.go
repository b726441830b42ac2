package memory

import (
	"context"
	"fmt"
	"time"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) List(ctx context.Context) ([]*models.Transaction, error) {
	return r.filter(func(*models.Transaction) bool { return true }), nil
}

func (r *transactionRepo) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	return r.filter(func(t *models.Transaction) bool { return t.Status == status }), nil
}

func (r *transactionRepo) ListByBooking(ctx context.Context, bookingID string) ([]*models.Transaction, error) {
	return r.filter(func(t *models.Transaction) bool { return t.BookingID == bookingID }), nil
}

func (r *transactionRepo) ListByPayment(ctx context.Context, paymentID string) ([]*models.Transaction, error) {
	return r.filter(func(t *models.Transaction) bool { return t.PaymentID == paymentID }), nil
}

// filter walks transactions in insertion order.
func (r *transactionRepo) filter(keep func(*models.Transaction) bool) []*models.Transaction {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	txs := make([]*models.Transaction, 0, len(r.s.txOrder))
	for _, id := range r.s.txOrder {
		if t, ok := r.s.txs[id]; ok && keep(t) {
			txs = append(txs, cloneTransaction(t))
		}
	}
	return txs
}

func (r *transactionRepo) Find(ctx context.Context, id string) (*models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.txs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneTransaction(t), nil
}

func (r *transactionRepo) Add(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = storage.NewTransactionID()
	}
	if _, exists := r.s.txs[tx.ID]; exists {
		return nil, fmt.Errorf("transaction %s already exists", tx.ID)
	}
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	r.s.txs[tx.ID] = cloneTransaction(tx)
	r.s.txOrder = append(r.s.txOrder, tx.ID)
	return tx, nil
}

func (r *transactionRepo) Update(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.txs[tx.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now().UTC()
	r.s.txs[tx.ID] = cloneTransaction(tx)
	return tx, nil
}

func (r *transactionRepo) Remove(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.txs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.txs, id)
	for i, v := range r.s.txOrder {
		if v == id {
			r.s.txOrder = append(r.s.txOrder[:i], r.s.txOrder[i+1:]...)
			break
		}
	}
	return nil
}
