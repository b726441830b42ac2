package models

import (
	"strings"
	"time"
)

// FlatMiles is the distance covered by a category's base fare.
const FlatMiles = 10.0

type VehicleCategory struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Vehicles   []string  `json:"vehicles"`
	IsActive   bool      `json:"is_active"`
	BaseFare   Money     `json:"base_fare"`   // first 10 miles
	PerMile    Money     `json:"per_mile"`    // beyond 10 miles
	HourlyRate Money     `json:"hourly_rate"` // time-based bookings
	CreatedAt  time.Time `json:"created_at"`
}

func (v VehicleCategory) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return InvalidInputError{Field: "name", Msg: "is required"}
	}
	if err := v.CheckRates(); err != nil {
		return err
	}
	if v.IsActive && len(v.Vehicles) == 0 {
		return InvalidInputError{Field: "vehicles", Msg: "an active category needs at least one vehicle"}
	}
	return nil
}

func (v VehicleCategory) CheckRates() error {
	if err := v.BaseFare.Check("base_fare"); err != nil {
		return err
	}
	if err := v.PerMile.Check("per_mile"); err != nil {
		return err
	}
	return v.HourlyRate.Check("hourly_rate")
}

// ParseVehicleList splits a comma separated list of models, dropping blanks.
func ParseVehicleList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
