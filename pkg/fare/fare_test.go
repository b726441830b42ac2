package fare

import (
	"math"
	"testing"

	"rideadmin/pkg/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sedans() models.VehicleCategory {
	return models.VehicleCategory{
		ID:         1,
		Name:       "Sedans",
		Vehicles:   []string{"Cadillac CTS"},
		IsActive:   true,
		BaseFare:   69.95,
		PerMile:    5.00,
		HourlyRate: 70.00,
	}
}

func TestComputeTripFare_FlatWithinTenMiles(t *testing.T) {
	cat := sedans()
	for _, miles := range []float64{0, 0.5, 3, 9.99, 10} {
		for _, perMile := range []models.Money{0, 5, 1000} {
			cat.PerMile = perMile
			got, err := ComputeTripFare(cat, miles, 0, ModeDistance)
			if err != nil {
				t.Fatalf("miles=%v: unexpected error: %v", miles, err)
			}
			if got != cat.BaseFare {
				t.Errorf("miles=%v perMile=%v: expected base fare %v, got %v", miles, perMile, cat.BaseFare, got)
			}
		}
	}
}

func TestComputeTripFare_BeyondTenMiles(t *testing.T) {
	got, err := ComputeTripFare(sedans(), 15, 0, ModeDistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.Float64(), 94.95) {
		t.Errorf("expected 94.95, got %v", got)
	}
	if got.String() != "$94.95" {
		t.Errorf("expected $94.95, got %s", got)
	}
}

func TestComputeTripFare_MonotonicInDistance(t *testing.T) {
	cat := sedans()
	prev := models.Money(0)
	for miles := 10.5; miles < 40; miles += 0.5 {
		got, err := ComputeTripFare(cat, miles, 0, ModeDistance)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got <= prev {
			t.Fatalf("fare not increasing at %v miles: %v <= %v", miles, got, prev)
		}
		want := 69.95 + 5*(miles-10)
		if !almostEqual(got.Float64(), want) {
			t.Errorf("miles=%v: expected %v, got %v", miles, want, got)
		}
		prev = got
	}
}

func TestComputeTripFare_Modes(t *testing.T) {
	cat := sedans()

	tests := []struct {
		name  string
		mode  Mode
		miles float64
		hours float64
		want  float64
	}{
		{"distance ignores hours", ModeDistance, 12, 3, 79.95},
		{"empty mode is distance", "", 12, 3, 79.95},
		{"hourly", ModeHourly, 12, 2.5, 175},
		{"combined", ModeCombined, 12, 2, 79.95 + 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTripFare(cat, tt.miles, tt.hours, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got.Float64(), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeTripFare_RejectsInvalidInput(t *testing.T) {
	negative := sedans()
	negative.PerMile = -1

	tests := []struct {
		name  string
		cat   models.VehicleCategory
		miles float64
		hours float64
		mode  Mode
	}{
		{"negative rate", negative, 5, 0, ModeDistance},
		{"negative distance", sedans(), -0.1, 0, ModeDistance},
		{"negative duration", sedans(), 5, -1, ModeHourly},
		{"NaN distance", sedans(), math.NaN(), 0, ModeDistance},
		{"infinite duration", sedans(), 5, math.Inf(1), ModeCombined},
		{"unknown mode", sedans(), 5, 1, Mode("surge")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTripFare(tt.cat, tt.miles, tt.hours, tt.mode)
			if !models.IsInvalidInput(err) {
				t.Fatalf("expected InvalidInputError, got %v (fare %v)", err, got)
			}
		})
	}
}

func TestComputeCityTripFare(t *testing.T) {
	city := models.City{Name: "New York", Country: "USA", BaseFare: 2.50, PerKmFare: 1.20, PerMinuteFare: 0.30}

	got, err := ComputeCityTripFare(city, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.Float64(), 11.50) {
		t.Errorf("expected 11.50, got %v", got)
	}

	if _, err := ComputeCityTripFare(city, -5, 10); !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError for negative km, got %v", err)
	}
	city.PerMinuteFare = -0.3
	if _, err := ComputeCityTripFare(city, 5, 10); !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError for negative rate, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeDistance {
		t.Errorf("expected distance mode, got %q %v", m, err)
	}
	if m, err := ParseMode("hourly"); err != nil || m != ModeHourly {
		t.Errorf("expected hourly mode, got %q %v", m, err)
	}
	if _, err := ParseMode("surge"); !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}
