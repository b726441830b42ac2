package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a currency amount in major units. Values are kept unrounded;
// Round is applied only when an amount leaves the system.
type Money float64

// NewMoney rejects negative, NaN and infinite amounts.
func NewMoney(v float64) (Money, error) {
	m := Money(v)
	if err := m.Check("amount"); err != nil {
		return 0, err
	}
	return m, nil
}

// ParseMoney accepts "12.5", "$12.50" or " 1,250.00 ".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, invalidInput("amount", "empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalidInput("amount", "%q is not a number", s)
	}
	return NewMoney(v)
}

// Check validates m, naming field in the returned error.
func (m Money) Check(field string) error {
	v := float64(m)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidInput(field, "must be a finite number")
	}
	if v < 0 {
		return invalidInput(field, "must not be negative, got %v", v)
	}
	return nil
}

func (m Money) Float64() float64 {
	return float64(m)
}

// Round rounds half away from zero to the minor unit (2 decimals).
func (m Money) Round() Money {
	return Money(math.Round(float64(m)*100) / 100)
}

func (m Money) String() string {
	return fmt.Sprintf("$%.2f", float64(m.Round()))
}
