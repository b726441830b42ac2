package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const transactionColumns = `id, booking_id, payment_id, customer_id, customer_name, amount, type, status, tx_date, tx_time,
	ride_date, ride_time, vehicle_category, pickup_location, drop_location, payment_method,
	refund_amount, refund_reason, created_at, updated_at`

type transactionRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewTransactionRepo(db *pgxpool.Pool, log logger.ILogger) storage.ITransactionStorage {
	return &transactionRepo{db: db, log: log}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t            models.Transaction
		amount       float64
		refundAmount *float64
		txType       string
		status       string
	)
	err := row.Scan(
		&t.ID, &t.BookingID, &t.PaymentID, &t.CustomerID, &t.CustomerName, &amount, &txType, &status, &t.Date, &t.Time,
		&t.RideDate, &t.RideTime, &t.VehicleCategory, &t.PickupLocation, &t.DropLocation, &t.PaymentMethod,
		&refundAmount, &t.RefundReason, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Amount = models.Money(amount)
	t.Type = models.TransactionType(txType)
	t.Status = models.TransactionStatus(status)
	if refundAmount != nil {
		m := models.Money(*refundAmount)
		t.RefundAmount = &m
	}
	return &t, nil
}

func refundArg(m *models.Money) *float64 {
	if m == nil {
		return nil
	}
	v := m.Float64()
	return &v
}

func (r *transactionRepo) List(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at ASC, id ASC`
	return r.scanTransactions(ctx, query)
}

func (r *transactionRepo) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 ORDER BY created_at ASC, id ASC`
	return r.scanTransactions(ctx, query, string(status))
}

func (r *transactionRepo) ListByBooking(ctx context.Context, bookingID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE booking_id = $1 ORDER BY created_at ASC, id ASC`
	return r.scanTransactions(ctx, query, bookingID)
}

func (r *transactionRepo) ListByPayment(ctx context.Context, paymentID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE payment_id = $1 ORDER BY created_at ASC, id ASC`
	return r.scanTransactions(ctx, query, paymentID)
}

func (r *transactionRepo) scanTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *transactionRepo) Find(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *transactionRepo) Add(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = storage.NewTransactionID()
	}
	query := `
		INSERT INTO transactions (id, booking_id, customer_id, customer_name, amount, type, status, tx_date, tx_time,
		                          ride_date, ride_time, vehicle_category, pickup_location, drop_location, payment_method,
		                          refund_amount, refund_reason, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		tx.ID, tx.BookingID, tx.CustomerID, tx.CustomerName, tx.Amount.Float64(), string(tx.Type), string(tx.Status),
		tx.Date, tx.Time, tx.RideDate, tx.RideTime, tx.VehicleCategory, tx.PickupLocation, tx.DropLocation,
		tx.PaymentMethod, refundArg(tx.RefundAmount), tx.RefundReason, tx.PaymentID,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		r.log.Error("failed to create transaction", logger.String("id", tx.ID), logger.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *transactionRepo) Update(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET booking_id = $1, customer_id = $2, customer_name = $3, amount = $4, type = $5, status = $6,
		    tx_date = $7, tx_time = $8, ride_date = $9, ride_time = $10, vehicle_category = $11,
		    pickup_location = $12, drop_location = $13, payment_method = $14, refund_amount = $15,
		    refund_reason = $16, payment_id = $17, updated_at = now()
		WHERE id = $18
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		tx.BookingID, tx.CustomerID, tx.CustomerName, tx.Amount.Float64(), string(tx.Type), string(tx.Status),
		tx.Date, tx.Time, tx.RideDate, tx.RideTime, tx.VehicleCategory, tx.PickupLocation, tx.DropLocation,
		tx.PaymentMethod, refundArg(tx.RefundAmount), tx.RefundReason, tx.PaymentID, tx.ID,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		r.log.Error("failed to update transaction", logger.String("id", tx.ID), logger.Error(err))
		return nil, notFound(err)
	}
	return tx, nil
}

func (r *transactionRepo) Remove(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
