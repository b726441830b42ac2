package fare

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"rideadmin/pkg/models"
)

// RefundTier grants Fraction of the amount when the ride is more than
// MinHoursBefore hours away.
type RefundTier struct {
	MinHoursBefore float64 `json:"min_hours_before"`
	Fraction       float64 `json:"fraction"`
}

// RefundPolicy is a tier table. The tier with the largest MinHoursBefore
// strictly below the hours left wins; no match means no refund.
type RefundPolicy struct {
	tiers []RefundTier
}

// DefaultRefundPolicy: more than 24h before pickup refunds 50%, otherwise nothing.
func DefaultRefundPolicy() RefundPolicy {
	return RefundPolicy{tiers: []RefundTier{{MinHoursBefore: 24, Fraction: 0.5}}}
}

func NewRefundPolicy(tiers ...RefundTier) (RefundPolicy, error) {
	sorted := make([]RefundTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinHoursBefore > sorted[j].MinHoursBefore
	})

	p := RefundPolicy{tiers: sorted}
	if err := p.Validate(); err != nil {
		return RefundPolicy{}, err
	}
	return p, nil
}

// ParseRefundPolicy reads "hours:fraction" pairs separated by commas, e.g. "24:0.5,72:1".
func ParseRefundPolicy(s string) (RefundPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RefundPolicy{}, models.InvalidInputError{Field: "refund_policy", Msg: "empty policy"}
	}

	var tiers []RefundTier
	for _, entry := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 2 {
			return RefundPolicy{}, models.InvalidInputError{Field: "refund_policy", Msg: fmt.Sprintf("malformed tier %q", entry)}
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return RefundPolicy{}, models.InvalidInputError{Field: "refund_policy", Msg: fmt.Sprintf("bad hours in %q", entry)}
		}
		fraction, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return RefundPolicy{}, models.InvalidInputError{Field: "refund_policy", Msg: fmt.Sprintf("bad fraction in %q", entry)}
		}
		tiers = append(tiers, RefundTier{MinHoursBefore: hours, Fraction: fraction})
	}
	return NewRefundPolicy(tiers...)
}

func (p RefundPolicy) Validate() error {
	seen := make(map[float64]bool, len(p.tiers))
	for _, t := range p.tiers {
		if math.IsNaN(t.MinHoursBefore) || math.IsInf(t.MinHoursBefore, 0) {
			return models.InvalidInputError{Field: "refund_policy", Msg: "tier hours must be finite"}
		}
		if math.IsNaN(t.Fraction) || t.Fraction < 0 || t.Fraction > 1 {
			return models.InvalidInputError{Field: "refund_policy", Msg: fmt.Sprintf("fraction %v outside [0,1]", t.Fraction)}
		}
		if seen[t.MinHoursBefore] {
			return models.InvalidInputError{Field: "refund_policy", Msg: fmt.Sprintf("duplicate tier at %vh", t.MinHoursBefore)}
		}
		seen[t.MinHoursBefore] = true
	}
	return nil
}

// Fraction returns the refundable share for a ride hoursUntilRide away.
func (p RefundPolicy) Fraction(hoursUntilRide float64) float64 {
	for _, t := range p.tiers {
		if hoursUntilRide > t.MinHoursBefore {
			return t.Fraction
		}
	}
	return 0
}

// Tiers returns a copy, largest threshold first.
func (p RefundPolicy) Tiers() []RefundTier {
	out := make([]RefundTier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

func (p RefundPolicy) String() string {
	parts := make([]string, 0, len(p.tiers))
	for i := len(p.tiers) - 1; i >= 0; i-- {
		t := p.tiers[i]
		parts = append(parts, strconv.FormatFloat(t.MinHoursBefore, 'f', -1, 64)+":"+strconv.FormatFloat(t.Fraction, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}
