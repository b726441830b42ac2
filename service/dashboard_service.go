package service

import (
	"context"
	"fmt"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type Overview struct {
	GrossPayments    models.Money                 `json:"gross_payments"`
	RefundedTotal    models.Money                 `json:"refunded_total"`
	NetRevenue       models.Money                 `json:"net_revenue"`
	PendingRefunds   int                          `json:"pending_refunds"`
	Transactions     int                          `json:"transactions"`
	BookingsByStatus map[models.BookingStatus]int `json:"bookings_by_status"`
	TotalBookings    int                          `json:"total_bookings"`
	ActiveCities     int                          `json:"active_cities"`
	TotalCities      int                          `json:"total_cities"`
	ActiveCategories int                          `json:"active_categories"`
	TotalCategories  int                          `json:"total_categories"`
	ActiveCustomers  int                          `json:"active_customers"`
	TotalCustomers   int                          `json:"total_customers"`
	UnreadNotices    int                          `json:"unread_notifications"`
}

type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type dashboardService struct {
	stg storage.IStorage
	log logger.ILogger
}

func newDashboardService(d *deps) DashboardService {
	return &dashboardService{
		stg: d.stg,
		log: d.log,
	}
}

func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	o := &Overview{BookingsByStatus: map[models.BookingStatus]int{}}

	txs, err := s.stg.Transaction().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview transactions: %w", err)
	}
	o.Transactions = len(txs)
	for _, t := range txs {
		switch {
		case t.Type == models.TransactionPayment && t.Status == models.TransactionCompleted:
			o.GrossPayments += t.Amount
		case t.Type == models.TransactionRefund && t.Status == models.TransactionCompleted && t.RefundAmount != nil:
			o.RefundedTotal += *t.RefundAmount
		case t.Type == models.TransactionRefund && t.Status == models.TransactionPending:
			o.PendingRefunds++
		}
	}
	o.NetRevenue = o.GrossPayments - o.RefundedTotal

	bookings, err := s.stg.Booking().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview bookings: %w", err)
	}
	o.TotalBookings = len(bookings)
	for _, b := range bookings {
		o.BookingsByStatus[b.Status]++
	}

	cities, err := s.stg.City().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview cities: %w", err)
	}
	o.TotalCities = len(cities)
	for _, c := range cities {
		if c.IsActive {
			o.ActiveCities++
		}
	}

	cats, err := s.stg.VehicleCategory().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview vehicle categories: %w", err)
	}
	o.TotalCategories = len(cats)
	for _, c := range cats {
		if c.IsActive {
			o.ActiveCategories++
		}
	}

	customers, err := s.stg.Customer().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview customers: %w", err)
	}
	o.TotalCustomers = len(customers)
	for _, c := range customers {
		if c.Status == models.CustomerActive {
			o.ActiveCustomers++
		}
	}

	notes, err := s.stg.Notification().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview notifications: %w", err)
	}
	for _, n := range notes {
		if !n.Read {
			o.UnreadNotices++
		}
	}

	s.log.Debug("dashboard overview computed", logger.Int("transactions", o.Transactions))
	return o, nil
}
