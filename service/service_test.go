package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
	"rideadmin/storage/memory"
)

var now = time.Date(2024, 12, 19, 12, 0, 0, 0, time.UTC)

func newSeeded(t *testing.T) IServiceManager {
	t.Helper()
	stg := memory.New(logger.NewNop())
	if err := storage.Seed(context.Background(), stg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	calc := fare.NewCalculator(fare.DefaultRefundPolicy(), time.UTC)
	return New(stg, calc, lock.NewLocal(), logger.NewNop(), WithClock(func() time.Time { return now }))
}

func payment30hAhead(t *testing.T, svc IServiceManager) *models.Transaction {
	t.Helper()
	p, err := svc.Transaction().RecordPayment(context.Background(), PaymentInput{
		BookingID:     "BOOK100",
		CustomerID:    "CUST100",
		CustomerName:  "Ada Lovelace",
		Amount:        45.25,
		PaymentMethod: "Credit Card",
		RideDate:      "2024-12-20",
		RideTime:      "18:00",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	return p
}

func TestCityService_ListFiltersAndQuote(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	cities, err := svc.City().List(ctx, CityFilter{Query: "mia"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cities) != 1 || cities[0].Name != "Miami" {
		t.Fatalf("expected Miami, got %v", cities)
	}

	active, _ := svc.City().List(ctx, CityFilter{ActiveOnly: true})
	if len(active) != 3 {
		t.Errorf("expected 3 active cities, got %d", len(active))
	}

	q, err := svc.City().QuoteFare(ctx, cities[0].ID, 10, 20)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	// 2.75 + 10*1.30 + 20*0.35
	if q.Display != "$22.75" {
		t.Errorf("expected $22.75, got %s", q.Display)
	}

	if _, err := svc.City().QuoteFare(ctx, cities[0].ID, -1, 20); !models.IsInvalidInput(err) {
		t.Errorf("expected invalid input for negative distance, got %v", err)
	}
}

func TestCityService_InactiveCityIsQuotedButFlagged(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	cities, _ := svc.City().List(ctx, CityFilter{Query: "chicago"})
	q, err := svc.City().QuoteFare(ctx, cities[0].ID, 5, 10)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Active {
		t.Error("expected the quote to carry the inactive flag")
	}
}

func TestCityService_CreateRejectsNegativeRate(t *testing.T) {
	svc := newSeeded(t)
	_, err := svc.City().Create(context.Background(), CityInput{Name: "Boston", Country: "USA", BaseFare: -1})
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCityService_GetMissing(t *testing.T) {
	svc := newSeeded(t)
	_, err := svc.City().Get(context.Background(), 999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleService_ToggleRequiresVehicles(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	cat, err := svc.Vehicle().Create(ctx, VehicleInput{Name: "Vans", BaseFare: 90, PerMile: 6, HourlyRate: 110})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.IsActive {
		t.Fatal("expected new category to be inactive")
	}
	if _, err := svc.Vehicle().ToggleActive(ctx, cat.ID); !models.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	updated, err := svc.Vehicle().Update(ctx, cat.ID, VehicleInput{
		Name: "Vans", Vehicles: " Ford Transit, ,Mercedes Sprinter", BaseFare: 90, PerMile: 6, HourlyRate: 110,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %v", updated.Vehicles)
	}
	toggled, err := svc.Vehicle().ToggleActive(ctx, cat.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsActive {
		t.Error("expected category to be active")
	}
}

func TestVehicleService_DuplicateName(t *testing.T) {
	svc := newSeeded(t)
	_, err := svc.Vehicle().Create(context.Background(), VehicleInput{Name: "sedans", Vehicles: "Audi A6", IsActive: true})
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input for duplicate name, got %v", err)
	}
}

func TestVehicleService_QuoteModes(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	cats, _ := svc.Vehicle().List(ctx, VehicleFilter{Query: "Sedans"})
	if len(cats) != 1 {
		t.Fatalf("expected one Sedans category, got %d", len(cats))
	}

	tests := []struct {
		mode fare.Mode
		want string
	}{
		{fare.ModeDistance, "$94.95"}, // 69.95 + 5*5
		{fare.ModeHourly, "$140.00"},  // 2h * 70
		{fare.ModeCombined, "$234.95"},
		{"", "$94.95"},
	}
	for _, tt := range tests {
		q, err := svc.Vehicle().QuoteFare(ctx, cats[0].ID, 15, 2, tt.mode)
		if err != nil {
			t.Fatalf("mode %q: %v", tt.mode, err)
		}
		if q.Display != tt.want {
			t.Errorf("mode %q: expected %s, got %s", tt.mode, tt.want, q.Display)
		}
	}
}

func TestBookingService_CreateAndTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	in := BookingInput{
		CustomerName:    "Grace Hopper",
		CustomerPhone:   "+1 555-0100",
		PickupLocation:  "Navy Yard",
		DropLocation:    "Union Station",
		BookingDate:     "2024-12-24",
		BookingTime:     "09:15",
		VehicleCategory: "Luxury SUVs",
		Fare:            120,
	}
	b, err := svc.Booking().Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != models.BookingPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}

	if _, err := svc.Booking().Complete(ctx, b.ID); !models.IsInvalidState(err) {
		t.Fatalf("expected pending -> completed to fail, got %v", err)
	}
	if _, err := svc.Booking().Confirm(ctx, b.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	done, err := svc.Booking().Complete(ctx, b.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.BookingCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	if _, err := svc.Booking().Update(ctx, b.ID, in); !models.IsInvalidState(err) {
		t.Errorf("expected update of completed booking to fail, got %v", err)
	}
	if _, err := svc.Booking().Cancel(ctx, b.ID); !models.IsInvalidState(err) {
		t.Errorf("expected cancel of completed booking to fail, got %v", err)
	}
}

func TestBookingService_UnknownCategory(t *testing.T) {
	svc := newSeeded(t)
	_, err := svc.Booking().Create(context.Background(), BookingInput{
		CustomerName: "X", CustomerPhone: "1", PickupLocation: "A", DropLocation: "B",
		BookingDate: "2024-12-24", BookingTime: "09:15", VehicleCategory: "Limousines",
	})
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestBookingService_ListSearchAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	got, err := svc.Booking().List(ctx, BookingFilter{Query: "shopping"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].CustomerName != "Jane Smith" {
		t.Fatalf("unexpected search result %v", got)
	}

	confirmed, _ := svc.Booking().List(ctx, BookingFilter{Status: models.BookingConfirmed})
	if len(confirmed) != 1 || confirmed[0].CustomerName != "John Doe" {
		t.Fatalf("unexpected status filter result %v", confirmed)
	}

	if _, err := svc.Booking().List(ctx, BookingFilter{Status: "lost"}); !models.IsInvalidInput(err) {
		t.Errorf("expected invalid input for unknown status, got %v", err)
	}
}

func TestBookingService_Estimate(t *testing.T) {
	svc := newSeeded(t)
	q, err := svc.Booking().Estimate(context.Background(), "Mid-Size SUVs", 8, 0, fare.ModeDistance)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if q.Display != "$74.99" {
		t.Errorf("expected flat fare $74.99, got %s", q.Display)
	}
}

func TestTransactionService_RequestAndDecideRefund(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	p := payment30hAhead(t, svc)

	if p.Date != "2024-12-19" || p.Time != "12:00" {
		t.Errorf("expected payment stamped with the clock, got %s %s", p.Date, p.Time)
	}

	refund, err := svc.Transaction().RequestRefund(ctx, p.ID, "plans changed", now)
	if err != nil {
		t.Fatalf("request refund: %v", err)
	}
	if refund.Type != models.TransactionRefund || refund.Status != models.TransactionPending {
		t.Fatalf("expected pending refund, got %s/%s", refund.Type, refund.Status)
	}
	if refund.Amount != 45.25 {
		t.Errorf("expected amount 45.25, got %v", refund.Amount)
	}
	if refund.RefundAmount == nil || *refund.RefundAmount != 22.625 {
		t.Fatalf("expected refund amount 22.625, got %v", refund.RefundAmount)
	}

	if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "again", now); !models.IsInvalidState(err) {
		t.Errorf("expected second request to fail, got %v", err)
	}

	approved, err := svc.Transaction().Decide(ctx, refund.ID, fare.DecisionApprove)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.TransactionCompleted {
		t.Fatalf("expected completed, got %s", approved.Status)
	}
	if *approved.RefundAmount != 22.625 || approved.Amount != 45.25 {
		t.Error("decision must not change amounts")
	}

	if _, err := svc.Transaction().Decide(ctx, refund.ID, fare.DecisionReject); !models.IsInvalidState(err) {
		t.Fatalf("expected second decision to fail with invalid state, got %v", err)
	}
}

func TestTransactionService_RefundQuote(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	// TXN001 rides at 14:30, two and a half hours after now.
	q, err := svc.Transaction().RefundQuote(ctx, "TXN001", now)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.HoursUntilRide != 2.5 || q.Refund != 0 || q.Display != "$0.00" {
		t.Errorf("unexpected quote %+v", q)
	}

	p := payment30hAhead(t, svc)
	q, err = svc.Transaction().RefundQuote(ctx, p.ID, now)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Fraction != 0.5 || q.Display != "$22.63" {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestTransactionService_RequestRefundNeedsCompletedPayment(t *testing.T) {
	svc := newSeeded(t)
	_, err := svc.Transaction().RequestRefund(context.Background(), "TXN002", "", now)
	if !models.IsInvalidState(err) {
		t.Fatalf("expected invalid state for a refund transaction, got %v", err)
	}
}

func TestTransactionService_RefundOncePerPaymentWithoutBooking(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	p, err := svc.Transaction().RecordPayment(ctx, PaymentInput{
		CustomerName: "Walk-in",
		Amount:       100,
		RideDate:     "2024-12-21",
		RideTime:     "12:00",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	first, err := svc.Transaction().RequestRefund(ctx, p.ID, "first", now)
	if err != nil {
		t.Fatalf("request refund: %v", err)
	}
	if first.PaymentID != p.ID {
		t.Errorf("expected refund linked to %s, got %q", p.ID, first.PaymentID)
	}
	if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "second", now); !models.IsInvalidState(err) {
		t.Fatalf("expected pending refund to block a second one, got %v", err)
	}

	if _, err := svc.Transaction().Decide(ctx, first.ID, fare.DecisionApprove); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "third", now); !models.IsInvalidState(err) {
		t.Fatalf("expected completed refund to block another one, got %v", err)
	}

	o, err := svc.Dashboard().Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.RefundedTotal != 50 {
		t.Errorf("expected refunded total 50, got %v", o.RefundedTotal)
	}
}

func TestTransactionService_RejectedRefundCanBeRequestedAgain(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	p := payment30hAhead(t, svc)

	refund, err := svc.Transaction().RequestRefund(ctx, p.ID, "", now)
	if err != nil {
		t.Fatalf("request refund: %v", err)
	}
	if _, err := svc.Transaction().Decide(ctx, refund.ID, fare.DecisionReject); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "", now); err != nil {
		t.Fatalf("expected a new request after rejection, got %v", err)
	}
}

func TestTransactionService_PaymentsOnSameBookingRefundSeparately(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	a := payment30hAhead(t, svc)
	b := payment30hAhead(t, svc)
	if a.BookingID != b.BookingID {
		t.Fatalf("expected both payments on one booking")
	}

	if _, err := svc.Transaction().RequestRefund(ctx, a.ID, "", now); err != nil {
		t.Fatalf("refund first payment: %v", err)
	}
	if _, err := svc.Transaction().RequestRefund(ctx, b.ID, "", now); err != nil {
		t.Fatalf("refund second payment: %v", err)
	}
}

func TestTransactionService_ConcurrentRefundRequests(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	p := payment30hAhead(t, svc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "", now); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !models.IsInvalidState(err) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one refund request to win, got %d", wins)
	}
}

func TestTransactionService_ConcurrentDecisions(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := fare.DecisionApprove
			if i%2 == 1 {
				d = fare.DecisionReject
			}
			if _, err := svc.Transaction().Decide(ctx, "TXN002", d); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !models.IsInvalidState(err) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one decision to win, got %d", wins)
	}
}

func TestTransactionService_MarkFailed(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	tx, err := svc.Transaction().MarkFailed(ctx, "TXN002")
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if tx.Status != models.TransactionFailed {
		t.Fatalf("expected failed, got %s", tx.Status)
	}
	if _, err := svc.Transaction().MarkFailed(ctx, "TXN001"); !models.IsInvalidState(err) {
		t.Errorf("expected completed payment to stay put, got %v", err)
	}
}

func TestTransactionService_ListAndExport(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	got, err := svc.Transaction().List(ctx, TransactionFilter{Query: "book002"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "TXN002" {
		t.Fatalf("unexpected search result %v", got)
	}

	var buf bytes.Buffer
	if err := svc.Transaction().ExportCSV(ctx, &buf, TransactionFilter{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][7] != "refund_amount" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][6] != "89.50" || records[1][7] != "" {
		t.Errorf("unexpected payment row %v", records[1])
	}
	if records[2][7] != "22.63" {
		t.Errorf("unexpected refund row %v", records[2])
	}
}

func TestTransactionService_ListByBooking(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	p := payment30hAhead(t, svc)
	if _, err := svc.Transaction().RequestRefund(ctx, p.ID, "", now); err != nil {
		t.Fatalf("request refund: %v", err)
	}

	got, err := svc.Transaction().List(ctx, TransactionFilter{BookingID: "BOOK100"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected payment and refund, got %v", got)
	}
	pending, _ := svc.Transaction().List(ctx, TransactionFilter{BookingID: "BOOK100", Status: models.TransactionPending})
	if len(pending) != 1 || pending[0].PaymentID != p.ID {
		t.Errorf("unexpected pending transactions for BOOK100 %v", pending)
	}
}

func TestDashboardService_Overview(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	o, err := svc.Dashboard().Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.GrossPayments != 89.50 || o.RefundedTotal != 0 || o.PendingRefunds != 1 {
		t.Errorf("unexpected totals %+v", o)
	}
	if o.ActiveCities != 3 || o.TotalCities != 4 || o.ActiveCategories != 3 {
		t.Errorf("unexpected reference counts %+v", o)
	}
	if o.BookingsByStatus[models.BookingConfirmed] != 1 || o.BookingsByStatus[models.BookingPending] != 1 {
		t.Errorf("unexpected bookings by status %v", o.BookingsByStatus)
	}

	if _, err := svc.Transaction().Decide(ctx, "TXN002", fare.DecisionApprove); err != nil {
		t.Fatalf("approve: %v", err)
	}
	o, _ = svc.Dashboard().Overview(ctx)
	if o.RefundedTotal != 22.63 || o.PendingRefunds != 0 {
		t.Errorf("unexpected totals after approval %+v", o)
	}
}
