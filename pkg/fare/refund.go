package fare

import (
	"time"

	"rideadmin/pkg/models"
)

// Decision is an operator's answer to a pending refund.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Calculator applies a refund policy, reading ride schedules in loc.
type Calculator struct {
	policy RefundPolicy
	loc    *time.Location
}

func NewCalculator(policy RefundPolicy, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{policy: policy, loc: loc}
}

func (c *Calculator) Policy() RefundPolicy { return c.policy }

func (c *Calculator) Location() *time.Location { return c.loc }

// HoursUntilRide is (rideInstant - now) in hours; negative once the ride is past.
func (c *Calculator) HoursUntilRide(tx models.Transaction, now time.Time) (float64, error) {
	ride, err := models.ParseSchedule(tx.RideDate, tx.RideTime, c.loc)
	if err != nil {
		return 0, err
	}
	return ride.Sub(now).Hours(), nil
}

// Refund computes the cancellation refund for tx at instant now.
// The result is unrounded and never exceeds tx.Amount.
func (c *Calculator) Refund(tx models.Transaction, now time.Time) (models.Money, error) {
	if err := tx.Amount.Check("amount"); err != nil {
		return 0, err
	}
	hours, err := c.HoursUntilRide(tx, now)
	if err != nil {
		return 0, err
	}
	fraction := c.policy.Fraction(hours)
	if fraction == 0 {
		return 0, nil
	}
	return models.Money(tx.Amount.Float64() * fraction), nil
}

// TripFare and CityTripFare delegate to the package-level functions.
func (c *Calculator) TripFare(cat models.VehicleCategory, distanceMiles, durationHours float64, mode Mode) (models.Money, error) {
	return ComputeTripFare(cat, distanceMiles, durationHours, mode)
}

func (c *Calculator) CityTripFare(city models.City, distanceKm, durationMinutes float64) (models.Money, error) {
	return ComputeCityTripFare(city, distanceKm, durationMinutes)
}

var defaultCalculator = NewCalculator(DefaultRefundPolicy(), time.UTC)

// ComputeRefund uses the default two-tier policy with schedules read in UTC.
func ComputeRefund(tx models.Transaction, now time.Time) (models.Money, error) {
	return defaultCalculator.Refund(tx, now)
}

// ApplyRefundDecision resolves a pending refund: approve -> completed,
// reject -> rejected. Amounts are left untouched.
func ApplyRefundDecision(tx *models.Transaction, decision Decision) error {
	var to models.TransactionStatus
	switch decision {
	case DecisionApprove:
		to = models.TransactionCompleted
	case DecisionReject:
		to = models.TransactionRejected
	default:
		return models.InvalidInputError{Field: "decision", Msg: "must be approve or reject"}
	}

	if tx.Type != models.TransactionRefund {
		return models.InvalidStateError{Entity: "transaction", ID: tx.ID, Status: "not a refund", Action: string(decision)}
	}
	return tx.Resolve(to, string(decision))
}
