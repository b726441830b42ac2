package service

import (
	"strings"

	"rideadmin/pkg/models"
)

type CityFilter struct {
	Query      string
	ActiveOnly bool
}

type VehicleFilter struct {
	Query      string
	ActiveOnly bool
}

type BookingFilter struct {
	Query  string
	Status models.BookingStatus
}

type TransactionFilter struct {
	Query     string
	BookingID string
	Status    models.TransactionStatus
	Type      models.TransactionType
}

// matches reports whether any field contains q, ignoring case. An empty q matches.
func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type CustomerFilter struct {
	Query  string
	Status models.CustomerStatus
}

type NotificationFilter struct {
	Type       models.NotificationType
	UnreadOnly bool
}
