package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type PaymentInput struct {
	BookingID       string       `json:"booking_id"`
	CustomerID      string       `json:"customer_id"`
	CustomerName    string       `json:"customer_name"`
	Amount          models.Money `json:"amount"`
	PaymentMethod   string       `json:"payment_method"`
	RideDate        string       `json:"ride_date"`
	RideTime        string       `json:"ride_time"`
	VehicleCategory string       `json:"vehicle_category"`
	PickupLocation  string       `json:"pickup_location"`
	DropLocation    string       `json:"drop_location"`
}

type RefundQuote struct {
	TransactionID  string       `json:"transaction_id"`
	Amount         models.Money `json:"amount"`
	HoursUntilRide float64      `json:"hours_until_ride"`
	Fraction       float64      `json:"fraction"`
	Refund         models.Money `json:"refund"`
	Display        string       `json:"display"`
}

var csvHeader = []string{
	"id", "booking_id", "customer_id", "customer_name", "type", "status",
	"amount", "refund_amount", "ride_date", "ride_time", "date", "time", "payment_id",
}

type TransactionService interface {
	List(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	RecordPayment(ctx context.Context, in PaymentInput) (*models.Transaction, error)
	RefundQuote(ctx context.Context, id string, now time.Time) (*RefundQuote, error)
	RequestRefund(ctx context.Context, paymentID, reason string, now time.Time) (*models.Transaction, error)
	Decide(ctx context.Context, id string, decision fare.Decision) (*models.Transaction, error)
	MarkFailed(ctx context.Context, id string) (*models.Transaction, error)
	ExportCSV(ctx context.Context, w io.Writer, filter TransactionFilter) error
}

type transactionService struct {
	stg    storage.ITransactionStorage
	calc   *fare.Calculator
	locker lock.Locker
	log    logger.ILogger
	now    func() time.Time
}

func newTransactionService(d *deps) TransactionService {
	return &transactionService{
		stg:    d.stg.Transaction(),
		calc:   d.calc,
		locker: d.locker,
		log:    d.log,
		now:    d.now,
	}
}

func (s *transactionService) List(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	var (
		txs []*models.Transaction
		err error
	)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.InvalidInputError{Field: "status", Msg: "unknown transaction status " + string(filter.Status)}
	}
	switch {
	case filter.BookingID != "":
		txs, err = s.stg.ListByBooking(ctx, filter.BookingID)
	case filter.Status != "":
		txs, err = s.stg.ListByStatus(ctx, filter.Status)
	default:
		txs, err = s.stg.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := txs[:0]
	for _, t := range txs {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if matches(filter.Query, t.CustomerName, t.ID, t.BookingID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := s.stg.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (s *transactionService) RecordPayment(ctx context.Context, in PaymentInput) (*models.Transaction, error) {
	if _, err := models.ParseSchedule(in.RideDate, in.RideTime, s.calc.Location()); err != nil {
		return nil, err
	}
	date, clock := s.stamp(s.now())
	tx := &models.Transaction{
		BookingID:       in.BookingID,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		Amount:          in.Amount,
		Type:            models.TransactionPayment,
		Status:          models.TransactionCompleted,
		Date:            date,
		Time:            clock,
		RideDate:        in.RideDate,
		RideTime:        in.RideTime,
		VehicleCategory: in.VehicleCategory,
		PickupLocation:  in.PickupLocation,
		DropLocation:    in.DropLocation,
		PaymentMethod:   in.PaymentMethod,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	created, err := s.stg.Add(ctx, tx)
	if err != nil {
		s.log.Error("failed to record payment", logger.String("booking_id", in.BookingID), logger.Error(err))
		return nil, fmt.Errorf("record payment: %w", err)
	}
	s.log.Info("payment recorded",
		logger.String("transaction_id", created.ID),
		logger.Float64("amount", created.Amount.Float64()),
	)
	return created, nil
}

func (s *transactionService) RefundQuote(ctx context.Context, id string, now time.Time) (*RefundQuote, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hours, err := s.calc.HoursUntilRide(*tx, now)
	if err != nil {
		return nil, err
	}
	refund, err := s.calc.Refund(*tx, now)
	if err != nil {
		return nil, err
	}
	return &RefundQuote{
		TransactionID:  tx.ID,
		Amount:         tx.Amount,
		HoursUntilRide: hours,
		Fraction:       s.calc.Policy().Fraction(hours),
		Refund:         refund,
		Display:        refund.String(),
	}, nil
}

// RequestRefund opens a pending refund against a completed payment. The refund
// carries the payment amount and the policy refund computed at now.
func (s *transactionService) RequestRefund(ctx context.Context, paymentID, reason string, now time.Time) (*models.Transaction, error) {
	unlock, err := s.locker.Lock(ctx, "transaction:"+paymentID)
	if err != nil {
		return nil, fmt.Errorf("lock transaction %s: %w", paymentID, err)
	}
	defer unlock()

	payment, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Type != models.TransactionPayment || payment.Status != models.TransactionCompleted {
		return nil, models.InvalidStateError{
			Entity: string(payment.Type),
			ID:     payment.ID,
			Status: string(payment.Status),
			Action: "refund",
		}
	}
	if err := s.checkNotRefunded(ctx, payment); err != nil {
		return nil, err
	}

	refund, err := s.calc.Refund(*payment, now)
	if err != nil {
		return nil, err
	}
	date, clock := s.stamp(now)
	tx := &models.Transaction{
		BookingID:       payment.BookingID,
		PaymentID:       payment.ID,
		CustomerID:      payment.CustomerID,
		CustomerName:    payment.CustomerName,
		Amount:          payment.Amount,
		Type:            models.TransactionRefund,
		Status:          models.TransactionPending,
		Date:            date,
		Time:            clock,
		RideDate:        payment.RideDate,
		RideTime:        payment.RideTime,
		VehicleCategory: payment.VehicleCategory,
		PickupLocation:  payment.PickupLocation,
		DropLocation:    payment.DropLocation,
		PaymentMethod:   payment.PaymentMethod,
		RefundAmount:    &refund,
		RefundReason:    reason,
	}
	created, err := s.stg.Add(ctx, tx)
	if err != nil {
		s.log.Error("failed to request refund", logger.String("payment_id", paymentID), logger.Error(err))
		return nil, fmt.Errorf("request refund for %s: %w", paymentID, err)
	}
	s.log.Info("refund requested",
		logger.String("transaction_id", created.ID),
		logger.String("payment_id", paymentID),
		logger.Float64("refund_amount", refund.Float64()),
	)
	return created, nil
}

// Decide approves or rejects a pending refund. Concurrent decisions on the
// same transaction are serialised; the loser sees a terminal status.
func (s *transactionService) Decide(ctx context.Context, id string, decision fare.Decision) (*models.Transaction, error) {
	return s.resolve(ctx, id, string(decision), func(tx *models.Transaction) error {
		return fare.ApplyRefundDecision(tx, decision)
	})
}

func (s *transactionService) MarkFailed(ctx context.Context, id string) (*models.Transaction, error) {
	return s.resolve(ctx, id, "fail", func(tx *models.Transaction) error {
		return tx.Resolve(models.TransactionFailed, "fail")
	})
}

func (s *transactionService) resolve(ctx context.Context, id, action string, apply func(*models.Transaction) error) (*models.Transaction, error) {
	unlock, err := s.locker.Lock(ctx, "transaction:"+id)
	if err != nil {
		return nil, fmt.Errorf("lock transaction %s: %w", id, err)
	}
	defer unlock()

	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tx); err != nil {
		s.log.Warning("transaction not resolved",
			logger.String("transaction_id", id),
			logger.String("action", action),
			logger.Error(err),
		)
		return nil, err
	}
	updated, err := s.stg.Update(ctx, tx)
	if err != nil {
		s.log.Error("failed to save transaction", logger.String("transaction_id", id), logger.Error(err))
		return nil, fmt.Errorf("%s transaction %s: %w", action, id, err)
	}
	s.log.Info("transaction resolved",
		logger.String("transaction_id", id),
		logger.String("action", action),
		logger.String("status", string(updated.Status)),
	)
	return updated, nil
}

// ExportCSV writes the filtered history. Amounts are rounded to cents.
func (s *transactionService) ExportCSV(ctx context.Context, w io.Writer, filter TransactionFilter) error {
	txs, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range txs {
		refund := ""
		if t.RefundAmount != nil {
			refund = formatAmount(*t.RefundAmount)
		}
		row := []string{
			t.ID, t.BookingID, t.CustomerID, t.CustomerName, string(t.Type), string(t.Status),
			formatAmount(t.Amount), refund, t.RideDate, t.RideTime, t.Date, t.Time, t.PaymentID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// checkNotRefunded rejects a second refund while one for the same payment is
// pending or already paid out. Callers hold the payment lock.
func (s *transactionService) checkNotRefunded(ctx context.Context, payment *models.Transaction) error {
	related, err := s.stg.ListByPayment(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("list refunds for payment %s: %w", payment.ID, err)
	}
	for _, t := range related {
		if t.Type != models.TransactionRefund {
			continue
		}
		if t.Status == models.TransactionPending || t.Status == models.TransactionCompleted {
			return models.InvalidStateError{
				Entity: "payment",
				ID:     payment.ID,
				Status: "refund " + string(t.Status) + " (" + t.ID + ")",
				Action: "refund",
			}
		}
	}
	return nil
}

func (s *transactionService) stamp(t time.Time) (string, string) {
	t = t.In(s.calc.Location())
	return t.Format(models.DateLayout), t.Format(models.TimeLayout)
}

func formatAmount(m models.Money) string {
	return strconv.FormatFloat(m.Round().Float64(), 'f', 2, 64)
}
