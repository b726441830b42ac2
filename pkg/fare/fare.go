// Package fare prices trips and cancellations.
//
// Two fare models coexist: per vehicle category (flat base fare for the first
// ten miles, per-mile beyond, optional hourly charge) and per city (base plus
// per-km plus per-minute). Neither is authoritative; callers pick one.
package fare

import (
	"math"

	"rideadmin/pkg/models"
)

// Mode selects how a vehicle category bills a trip.
type Mode string

const (
	ModeDistance Mode = "distance"
	ModeHourly   Mode = "hourly"
	ModeCombined Mode = "combined"
)

// ParseMode maps "" to ModeDistance.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeDistance, nil
	case ModeDistance, ModeHourly, ModeCombined:
		return m, nil
	}
	return "", models.InvalidInputError{Field: "mode", Msg: "must be distance, hourly or combined"}
}

// ComputeTripFare prices a trip for a vehicle category.
//
// In ModeDistance the first models.FlatMiles miles cost BaseFare and every
// further mile costs PerMile; durationHours is validated but not billed.
// ModeHourly bills HourlyRate per hour. ModeCombined bills both.
func ComputeTripFare(cat models.VehicleCategory, distanceMiles, durationHours float64, mode Mode) (models.Money, error) {
	if err := cat.CheckRates(); err != nil {
		return 0, err
	}
	if err := checkQuantity("distance", distanceMiles); err != nil {
		return 0, err
	}
	if err := checkQuantity("duration", durationHours); err != nil {
		return 0, err
	}

	switch mode {
	case ModeDistance, "":
		return distanceCharge(cat, distanceMiles), nil
	case ModeHourly:
		return hourlyCharge(cat, durationHours), nil
	case ModeCombined:
		return distanceCharge(cat, distanceMiles) + hourlyCharge(cat, durationHours), nil
	}
	return 0, models.InvalidInputError{Field: "mode", Msg: "unknown pricing mode " + string(mode)}
}

// ComputeCityTripFare = BaseFare + PerKmFare*km + PerMinuteFare*minutes.
func ComputeCityTripFare(city models.City, distanceKm, durationMinutes float64) (models.Money, error) {
	if err := city.BaseFare.Check("base_fare"); err != nil {
		return 0, err
	}
	if err := city.PerKmFare.Check("per_km_fare"); err != nil {
		return 0, err
	}
	if err := city.PerMinuteFare.Check("per_minute_fare"); err != nil {
		return 0, err
	}
	if err := checkQuantity("distance", distanceKm); err != nil {
		return 0, err
	}
	if err := checkQuantity("duration", durationMinutes); err != nil {
		return 0, err
	}

	total := city.BaseFare.Float64() +
		city.PerKmFare.Float64()*distanceKm +
		city.PerMinuteFare.Float64()*durationMinutes
	return models.Money(total), nil
}

func distanceCharge(cat models.VehicleCategory, miles float64) models.Money {
	if miles <= models.FlatMiles {
		return cat.BaseFare
	}
	return models.Money(cat.BaseFare.Float64() + cat.PerMile.Float64()*(miles-models.FlatMiles))
}

func hourlyCharge(cat models.VehicleCategory, hours float64) models.Money {
	return models.Money(cat.HourlyRate.Float64() * hours)
}

func checkQuantity(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.InvalidInputError{Field: field, Msg: "must be a finite number"}
	}
	if v < 0 {
		return models.InvalidInputError{Field: field, Msg: "must not be negative"}
	}
	return nil
}
