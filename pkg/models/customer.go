package models

import (
	"strconv"
	"strings"
	"time"
)

type CustomerStatus string

const (
	CustomerActive    CustomerStatus = "active"
	CustomerSuspended CustomerStatus = "suspended"
	CustomerBanned    CustomerStatus = "banned"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerSuspended, CustomerBanned:
		return true
	}
	return false
}

// Customer is a rider account. Bookings are linked to it by phone number.
type Customer struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Status     CustomerStatus `json:"status"`
	JoinDate   string         `json:"join_date"` // 2006-01-02
	TotalRides int            `json:"total_rides"`
	TotalSpent Money          `json:"total_spent"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return InvalidInputError{Field: "name", Msg: "is required"}
	}
	if at := strings.Index(c.Email, "@"); at <= 0 || at == len(c.Email)-1 {
		return invalidInput("email", "%q is not an email address", c.Email)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return InvalidInputError{Field: "phone", Msg: "is required"}
	}
	if !c.Status.Valid() {
		return invalidInput("status", "unknown customer status %q", c.Status)
	}
	if _, err := time.Parse(DateLayout, c.JoinDate); err != nil {
		return invalidInput("join_date", "%q is not a YYYY-MM-DD date", c.JoinDate)
	}
	if c.TotalRides < 0 {
		return invalidInput("total_rides", "must not be negative, got %d", c.TotalRides)
	}
	return c.TotalSpent.Check("total_spent")
}

// Suspend moves active -> suspended.
func (c *Customer) Suspend() error {
	if c.Status != CustomerActive {
		return c.stateError("suspend")
	}
	c.setStatus(CustomerSuspended)
	return nil
}

// Ban moves active or suspended -> banned.
func (c *Customer) Ban() error {
	if c.Status == CustomerBanned {
		return c.stateError("ban")
	}
	c.setStatus(CustomerBanned)
	return nil
}

// Activate moves suspended or banned -> active.
func (c *Customer) Activate() error {
	if c.Status == CustomerActive {
		return c.stateError("activate")
	}
	c.setStatus(CustomerActive)
	return nil
}

// RecordRide adds a completed ride to the customer's totals.
func (c *Customer) RecordRide(fare Money) {
	c.TotalRides++
	c.TotalSpent += fare
	c.UpdatedAt = time.Now().UTC()
}

// CanBook reports whether new bookings may be taken for the customer.
func (c Customer) CanBook() error {
	if c.Status != CustomerActive {
		return c.stateError("book")
	}
	return nil
}

func (c *Customer) setStatus(s CustomerStatus) {
	c.Status = s
	c.UpdatedAt = time.Now().UTC()
}

func (c Customer) stateError(action string) error {
	return InvalidStateError{
		Entity: "customer",
		ID:     strconv.FormatInt(c.ID, 10),
		Status: string(c.Status),
		Action: action,
	}
}
