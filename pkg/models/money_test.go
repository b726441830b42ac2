package models

import (
	"math"
	"testing"
)

func TestNewMoney(t *testing.T) {
	if _, err := NewMoney(12.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range []float64{-0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewMoney(v); !IsInvalidInput(err) {
			t.Errorf("%v: expected InvalidInputError, got %v", v, err)
		}
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"89.50", 89.5},
		{"$124.99", 124.99},
		{" 1,250.00 ", 1250},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, in := range []string{"", "abc", "-5", "$"} {
		if _, err := ParseMoney(in); !IsInvalidInput(err) {
			t.Errorf("%q: expected InvalidInputError, got %v", in, err)
		}
	}
}

func TestMoney_RoundAndString(t *testing.T) {
	m := Money(45.25 * 0.5)
	if m.Round() != 22.63 {
		t.Errorf("expected 22.63, got %v", m.Round())
	}
	if m.String() != "$22.63" {
		t.Errorf("expected $22.63, got %s", m)
	}
	if Money(2.5).String() != "$2.50" {
		t.Errorf("expected $2.50, got %s", Money(2.5))
	}
}
