package models

import (
	"strings"
	"time"
)

type City struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Country       string    `json:"country"`
	IsActive      bool      `json:"is_active"`
	BaseFare      Money     `json:"base_fare"`       // per trip
	PerKmFare     Money     `json:"per_km_fare"`     // per km
	PerMinuteFare Money     `json:"per_minute_fare"` // per minute
	TotalDrivers  int       `json:"total_drivers"`
	TotalRides    int       `json:"total_rides"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c City) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return InvalidInputError{Field: "name", Msg: "is required"}
	}
	if strings.TrimSpace(c.Country) == "" {
		return InvalidInputError{Field: "country", Msg: "is required"}
	}
	if err := c.BaseFare.Check("base_fare"); err != nil {
		return err
	}
	if err := c.PerKmFare.Check("per_km_fare"); err != nil {
		return err
	}
	return c.PerMinuteFare.Check("per_minute_fare")
}
