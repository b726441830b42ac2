package models

import (
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type Booking struct {
	ID              int64         `json:"id"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	PickupLocation  string        `json:"pickup_location"`
	DropLocation    string        `json:"drop_location"`
	BookingDate     string        `json:"booking_date"` // 2006-01-02
	BookingTime     string        `json:"booking_time"` // 15:04
	VehicleCategory string        `json:"vehicle_category"`
	Fare            Money         `json:"fare"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (b Booking) Validate() error {
	required := []struct{ field, value string }{
		{"customer_name", b.CustomerName},
		{"customer_phone", b.CustomerPhone},
		{"pickup_location", b.PickupLocation},
		{"drop_location", b.DropLocation},
		{"vehicle_category", b.VehicleCategory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return InvalidInputError{Field: r.field, Msg: "is required"}
		}
	}
	if _, err := ParseSchedule(b.BookingDate, b.BookingTime, time.UTC); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return invalidInput("status", "unknown booking status %q", b.Status)
	}
	return b.Fare.Check("fare")
}

// Confirm moves pending -> confirmed.
func (b *Booking) Confirm() error {
	if b.Status != BookingPending {
		return b.stateError("confirm")
	}
	b.setStatus(BookingConfirmed)
	return nil
}

// Complete moves confirmed -> completed.
func (b *Booking) Complete() error {
	if b.Status != BookingConfirmed {
		return b.stateError("complete")
	}
	b.setStatus(BookingCompleted)
	return nil
}

// Cancel moves pending or confirmed -> cancelled.
func (b *Booking) Cancel() error {
	if b.Status.Terminal() {
		return b.stateError("cancel")
	}
	b.setStatus(BookingCancelled)
	return nil
}

func (b *Booking) setStatus(s BookingStatus) {
	b.Status = s
	b.UpdatedAt = time.Now().UTC()
}

func (b *Booking) stateError(action string) error {
	return InvalidStateError{
		Entity: "booking",
		ID:     strconv.FormatInt(b.ID, 10),
		Status: string(b.Status),
		Action: action,
	}
}
