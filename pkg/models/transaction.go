package models

import "time"

type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionRejected  TransactionStatus = "rejected"
	TransactionFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionCompleted, TransactionPending, TransactionRejected, TransactionFailed:
		return true
	}
	return false
}

func (s TransactionStatus) Terminal() bool {
	return s != TransactionPending
}

type Transaction struct {
	ID              string            `json:"id"`
	BookingID       string            `json:"booking_id"`
	PaymentID       string            `json:"payment_id,omitempty"` // refunds only
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	Amount          Money             `json:"amount"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	RideDate        string            `json:"ride_date"`
	RideTime        string            `json:"ride_time"`
	VehicleCategory string            `json:"vehicle_category,omitempty"`
	PickupLocation  string            `json:"pickup_location,omitempty"`
	DropLocation    string            `json:"drop_location,omitempty"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
	RefundAmount    *Money            `json:"refund_amount,omitempty"`
	RefundReason    string            `json:"refund_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (t Transaction) Validate() error {
	if t.Type != TransactionPayment && t.Type != TransactionRefund {
		return invalidInput("type", "unknown transaction type %q", t.Type)
	}
	if !t.Status.Valid() {
		return invalidInput("status", "unknown transaction status %q", t.Status)
	}
	if err := t.Amount.Check("amount"); err != nil {
		return err
	}
	if t.RefundAmount != nil {
		if err := t.RefundAmount.Check("refund_amount"); err != nil {
			return err
		}
		if *t.RefundAmount > t.Amount {
			return InvalidInputError{Field: "refund_amount", Msg: "exceeds transaction amount"}
		}
	}
	return nil
}

// Resolve moves a pending transaction to a terminal status.
func (t *Transaction) Resolve(to TransactionStatus, action string) error {
	if t.Status != TransactionPending || !to.Terminal() || !to.Valid() {
		return InvalidStateError{Entity: "transaction", ID: t.ID, Status: string(t.Status), Action: action}
	}
	t.Status = to
	t.UpdatedAt = time.Now().UTC()
	return nil
}
