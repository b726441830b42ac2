package models

import (
	"strings"
	"time"
)

type NotificationType string

const (
	NotificationBookingCreated NotificationType = "booking_created"
	NotificationRideCompleted  NotificationType = "ride_completed"
	NotificationAnnouncement   NotificationType = "announcement"
	NotificationDriverAlert    NotificationType = "driver_alert"
	NotificationUserAlert      NotificationType = "user_alert"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationBookingCreated, NotificationRideCompleted,
		NotificationAnnouncement, NotificationDriverAlert, NotificationUserAlert:
		return true
	}
	return false
}

// Manual reports whether operators may send this type by hand. Booking
// events are only raised by the booking workflow.
func (t NotificationType) Manual() bool {
	return t == NotificationAnnouncement || t == NotificationDriverAlert || t == NotificationUserAlert
}

const (
	RecipientAdmin        = "admin"
	RecipientAllUsers     = "all_users"
	RecipientAllDrivers   = "all_drivers"
	RecipientSpecificUser = "specific_user"
)

type Notification struct {
	ID           int64            `json:"id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Recipient    string           `json:"recipient"`
	CustomerName string           `json:"customer_name,omitempty"`
	BookingID    int64            `json:"booking_id,omitempty"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (n Notification) Validate() error {
	if !n.Type.Valid() {
		return invalidInput("type", "unknown notification type %q", n.Type)
	}
	if strings.TrimSpace(n.Title) == "" {
		return InvalidInputError{Field: "title", Msg: "is required"}
	}
	if strings.TrimSpace(n.Message) == "" {
		return InvalidInputError{Field: "message", Msg: "is required"}
	}
	switch n.Recipient {
	case RecipientAdmin, RecipientAllUsers, RecipientAllDrivers, RecipientSpecificUser:
		return nil
	}
	return invalidInput("recipient", "unknown recipient %q", n.Recipient)
}
