package storage

import (
	"context"
	"fmt"

	"rideadmin/pkg/models"
)

// Seed loads the operator's starter reference data, the customer registry and
// two sample bookings with their transactions.
func Seed(ctx context.Context, stg IStorage) error {
	cities := []*models.City{
		{Name: "New York", Country: "USA", IsActive: true, BaseFare: 2.50, PerKmFare: 1.20, PerMinuteFare: 0.30, TotalDrivers: 245, TotalRides: 12543},
		{Name: "Los Angeles", Country: "USA", IsActive: true, BaseFare: 2.00, PerKmFare: 1.10, PerMinuteFare: 0.25, TotalDrivers: 189, TotalRides: 8934},
		{Name: "Chicago", Country: "USA", IsActive: false, BaseFare: 2.25, PerKmFare: 1.15, PerMinuteFare: 0.28, TotalDrivers: 156, TotalRides: 6721},
		{Name: "Miami", Country: "USA", IsActive: true, BaseFare: 2.75, PerKmFare: 1.30, PerMinuteFare: 0.35, TotalDrivers: 98, TotalRides: 4567},
	}
	for _, c := range cities {
		if _, err := stg.City().Add(ctx, c); err != nil {
			return fmt.Errorf("seed city %s: %w", c.Name, err)
		}
	}

	categories := []*models.VehicleCategory{
		{Name: "Sedans", IsActive: true, BaseFare: 69.95, PerMile: 5.00, HourlyRate: 70.00,
			Vehicles: []string{"Cadillac CTS", "BMW 5 & 7 series", "MERCEDES BENZ 500"}},
		{Name: "Mid-Size SUVs", IsActive: true, BaseFare: 74.99, PerMile: 5.00, HourlyRate: 80.00,
			Vehicles: []string{"CADILLAC XT6", "BMW X5", "MERCEDES G450", "LINCOLN AVIATOR", "LINCOLN NAUTILUS"}},
		{Name: "Luxury SUVs", IsActive: true, BaseFare: 85.00, PerMile: 5.00, HourlyRate: 100.00,
			Vehicles: []string{"CADILLAC ESCALADE", "GMC YUKON", "LINCOLN NAVIGATOR", "CHEVY SUBURBAN"}},
	}
	for _, c := range categories {
		if _, err := stg.VehicleCategory().Add(ctx, c); err != nil {
			return fmt.Errorf("seed vehicle category %s: %w", c.Name, err)
		}
	}

	bookings := []*models.Booking{
		{CustomerName: "John Doe", CustomerPhone: "+1 234-567-8901", PickupLocation: "Downtown Airport", DropLocation: "Hotel Central",
			BookingDate: "2024-12-19", BookingTime: "14:30", VehicleCategory: "Sedans", Fare: 89.50, Status: models.BookingConfirmed},
		{CustomerName: "Jane Smith", CustomerPhone: "+1 234-567-8902", PickupLocation: "Business District", DropLocation: "Shopping Mall",
			BookingDate: "2024-12-20", BookingTime: "10:00", VehicleCategory: "Mid-Size SUVs", Fare: 124.99, Status: models.BookingPending},
	}
	for _, b := range bookings {
		if _, err := stg.Booking().Add(ctx, b); err != nil {
			return fmt.Errorf("seed booking for %s: %w", b.CustomerName, err)
		}
	}

	customers := []*models.Customer{
		{Name: "John Doe", Email: "john.doe@email.com", Phone: "+1 234-567-8901", Status: models.CustomerActive,
			JoinDate: "2024-01-15", TotalRides: 45, TotalSpent: 1230},
		{Name: "Jane Smith", Email: "jane.smith@email.com", Phone: "+1 234-567-8902", Status: models.CustomerActive,
			JoinDate: "2024-02-20", TotalRides: 32, TotalSpent: 890},
		{Name: "Mike Johnson", Email: "mike.j@email.com", Phone: "+1 234-567-8903", Status: models.CustomerSuspended,
			JoinDate: "2024-01-10", TotalRides: 67, TotalSpent: 2140},
		{Name: "Sarah Wilson", Email: "sarah.w@email.com", Phone: "+1 234-567-8904", Status: models.CustomerActive,
			JoinDate: "2024-03-05", TotalRides: 23, TotalSpent: 650},
		{Name: "Tom Brown", Email: "tom.brown@email.com", Phone: "+1 234-567-8905", Status: models.CustomerBanned,
			JoinDate: "2024-01-08", TotalRides: 12, TotalSpent: 340},
	}
	for _, c := range customers {
		if _, err := stg.Customer().Add(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
	}

	refund := models.Money(22.63)
	txs := []*models.Transaction{
		{ID: "TXN001", CustomerID: "CUST001", CustomerName: "John Doe", BookingID: "BOOK001", Amount: 89.50,
			Type: models.TransactionPayment, Status: models.TransactionCompleted, Date: "2024-12-19", Time: "14:30",
			VehicleCategory: "Sedans", PickupLocation: "Downtown Airport", DropLocation: "Hotel Central",
			PaymentMethod: "Credit Card", RideDate: "2024-12-19", RideTime: "14:30"},
		{ID: "TXN002", CustomerID: "CUST002", CustomerName: "Jane Smith", BookingID: "BOOK002", Amount: 45.25,
			Type: models.TransactionRefund, Status: models.TransactionPending, Date: "2024-12-20", Time: "10:00",
			VehicleCategory: "Mid-Size SUVs", PickupLocation: "Business District", DropLocation: "Shopping Mall",
			PaymentMethod: "Debit Card", RefundReason: "Cancelled 12 hours before pickup", RefundAmount: &refund,
			RideDate: "2024-12-21", RideTime: "15:00"},
	}
	for _, t := range txs {
		if _, err := stg.Transaction().Add(ctx, t); err != nil {
			return fmt.Errorf("seed transaction %s: %w", t.ID, err)
		}
	}
	return nil
}
