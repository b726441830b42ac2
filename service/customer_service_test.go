package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []*models.Notification
	err   error
}

func (r *recordingNotifier) Notify(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return r.err
}

func (r *recordingNotifier) types() []models.NotificationType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationType, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Type)
	}
	return out
}

func bookingFor(name, phone string) BookingInput {
	return BookingInput{
		CustomerName:    name,
		CustomerPhone:   phone,
		PickupLocation:  "Downtown Airport",
		DropLocation:    "Hotel Central",
		BookingDate:     "2024-12-24",
		BookingTime:     "09:15",
		VehicleCategory: "Sedans",
		Fare:            89.50,
	}
}

func TestCustomerService_ListSearchAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	all, err := svc.Customer().List(ctx, CustomerFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 customers, got %d", len(all))
	}

	byEmail, _ := svc.Customer().List(ctx, CustomerFilter{Query: "MIKE.J@"})
	if len(byEmail) != 1 || byEmail[0].Name != "Mike Johnson" {
		t.Errorf("unexpected email search %v", byEmail)
	}
	byName, _ := svc.Customer().List(ctx, CustomerFilter{Query: "smith"})
	if len(byName) != 1 || byName[0].Email != "jane.smith@email.com" {
		t.Errorf("unexpected name search %v", byName)
	}
	byPhone, _ := svc.Customer().List(ctx, CustomerFilter{Query: "567-8901"})
	if len(byPhone) != 0 {
		t.Errorf("expected phone to be outside the search, got %v", byPhone)
	}

	active, _ := svc.Customer().List(ctx, CustomerFilter{Status: models.CustomerActive, Query: "j"})
	for _, c := range active {
		if c.Status != models.CustomerActive {
			t.Errorf("unexpected status %s for %s", c.Status, c.Name)
		}
	}
	if len(active) != 2 {
		t.Errorf("expected John Doe and Jane Smith, got %v", active)
	}

	if _, err := svc.Customer().List(ctx, CustomerFilter{Status: "deleted"}); !models.IsInvalidInput(err) {
		t.Errorf("expected invalid input for unknown status, got %v", err)
	}
}

func TestCustomerService_CreateAndUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	c, err := svc.Customer().Create(ctx, CustomerInput{Name: "Grace Hopper", Email: "grace@navy.mil", Phone: "+1 555-0100"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != models.CustomerActive || c.JoinDate != "2024-12-19" || c.TotalRides != 0 {
		t.Errorf("unexpected new customer %+v", c)
	}

	if _, err := svc.Customer().Create(ctx, CustomerInput{Name: "Copy", Email: "GRACE@navy.mil", Phone: "+1 555-0199"}); !models.IsInvalidInput(err) {
		t.Errorf("expected duplicate email to fail, got %v", err)
	}
	if _, err := svc.Customer().Create(ctx, CustomerInput{Name: "Copy", Email: "copy@navy.mil", Phone: "+1 555-0100"}); !models.IsInvalidInput(err) {
		t.Errorf("expected duplicate phone to fail, got %v", err)
	}

	updated, err := svc.Customer().Update(ctx, c.ID, CustomerInput{Name: "Grace B. Hopper", Email: "grace@navy.mil", Phone: "+1 555-0100"})
	if err != nil {
		t.Fatalf("update keeping own email: %v", err)
	}
	if updated.Name != "Grace B. Hopper" || updated.JoinDate != "2024-12-19" {
		t.Errorf("unexpected update %+v", updated)
	}

	if err := svc.Customer().Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Customer().Get(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomerService_SuspendAndActivate(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	// 1 is John Doe, 3 is Mike Johnson (suspended), 5 is Tom Brown (banned).
	c, err := svc.Customer().Suspend(ctx, 1)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if c.Status != models.CustomerSuspended {
		t.Fatalf("expected suspended, got %s", c.Status)
	}
	if _, err := svc.Customer().Suspend(ctx, 1); !models.IsInvalidState(err) {
		t.Errorf("expected second suspend to fail, got %v", err)
	}
	if _, err := svc.Customer().Activate(ctx, 5); err != nil {
		t.Errorf("activate banned: %v", err)
	}
	if _, err := svc.Customer().Ban(ctx, 3); err != nil {
		t.Errorf("ban suspended: %v", err)
	}
	if _, err := svc.Customer().Activate(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingService_RefusesInactiveCustomer(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	_, err := svc.Booking().Create(ctx, bookingFor("Mike Johnson", "+1 234-567-8903"))
	if !models.IsInvalidState(err) {
		t.Fatalf("expected suspended customer to be refused, got %v", err)
	}

	if _, err := svc.Customer().Activate(ctx, 3); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := svc.Booking().Create(ctx, bookingFor("Mike Johnson", "+1 234-567-8903")); err != nil {
		t.Fatalf("expected booking after activation, got %v", err)
	}
}

func TestBookingService_CompleteCreditsCustomerAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	rec := &recordingNotifier{}
	svc.Notification().Subscribe(rec)

	b, err := svc.Booking().Create(ctx, bookingFor("Sarah Wilson", "+1 234-567-8904"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Booking().Confirm(ctx, b.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.Booking().Complete(ctx, b.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	c, _ := svc.Customer().Get(ctx, 4)
	if c.TotalRides != 24 || c.TotalSpent != 739.50 {
		t.Errorf("expected 24 rides and 739.50 spent, got %d / %v", c.TotalRides, c.TotalSpent)
	}

	got := rec.types()
	if len(got) != 2 || got[0] != models.NotificationBookingCreated || got[1] != models.NotificationRideCompleted {
		t.Fatalf("unexpected delivered notifications %v", got)
	}
	if rec.notes[0].BookingID != b.ID || rec.notes[0].Recipient != models.RecipientAdmin {
		t.Errorf("unexpected booking notification %+v", rec.notes[0])
	}
	if rec.notes[0].Message != "Sarah Wilson has booked a ride from Downtown Airport to Hotel Central" {
		t.Errorf("unexpected message %q", rec.notes[0].Message)
	}

	// A walk-in completes without touching the registry.
	walkIn, _ := svc.Booking().Create(ctx, bookingFor("Walk-in", "+1 555-0000"))
	_, _ = svc.Booking().Confirm(ctx, walkIn.ID)
	if _, err := svc.Booking().Complete(ctx, walkIn.ID); err != nil {
		t.Fatalf("complete walk-in: %v", err)
	}
}

func TestBookingService_ConcurrentCompleteCreditsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)

	// Booking 1 is John Doe's confirmed ride.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Booking().Complete(ctx, 1); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected one completion, got %d", wins)
	}
	c, _ := svc.Customer().Get(ctx, 1)
	if c.TotalRides != 46 {
		t.Errorf("expected ride credited once, got %d", c.TotalRides)
	}
}

func TestNotificationService_SendListAndRead(t *testing.T) {
	ctx := context.Background()
	svc := newSeeded(t)
	rec := &recordingNotifier{err: errors.New("chat unreachable")}
	svc.Notification().Subscribe(rec)

	n, err := svc.Notification().Send(ctx, NotificationInput{
		Recipient: models.RecipientAllDrivers,
		Title:     "Airport pickups",
		Message:   "Use terminal B lane 3 from Monday",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if n.Type != models.NotificationAnnouncement || n.Read {
		t.Errorf("unexpected notification %+v", n)
	}
	if len(rec.types()) != 1 {
		t.Errorf("expected delivery attempt despite notifier error")
	}

	if _, err := svc.Notification().Send(ctx, NotificationInput{Type: models.NotificationRideCompleted, Recipient: models.RecipientAllUsers, Title: "x", Message: "y"}); !models.IsInvalidInput(err) {
		t.Errorf("expected booking event type to be refused, got %v", err)
	}
	if _, err := svc.Notification().Send(ctx, NotificationInput{Recipient: models.RecipientSpecificUser, Title: "x", Message: "y"}); !models.IsInvalidInput(err) {
		t.Errorf("expected specific user without name to be refused, got %v", err)
	}
	if _, err := svc.Notification().Send(ctx, NotificationInput{Recipient: "", Title: "x", Message: "y"}); !models.IsInvalidInput(err) {
		t.Errorf("expected missing recipient to be refused, got %v", err)
	}

	if _, err := svc.Booking().Create(ctx, bookingFor("Jane Smith", "+1 234-567-8902")); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	unread, _ := svc.Notification().List(ctx, NotificationFilter{UnreadOnly: true})
	if len(unread) != 2 || unread[0].Type != models.NotificationBookingCreated {
		t.Fatalf("expected newest first with 2 unread, got %v", unread)
	}
	if _, err := svc.Notification().MarkRead(ctx, unread[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	st, err := svc.Notification().Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 2 || st.Unread != 1 || st.BookingsCreated != 1 || st.RidesCompleted != 0 {
		t.Errorf("unexpected stats %+v", st)
	}

	marked, _ := svc.Notification().MarkAllRead(ctx)
	if marked != 1 {
		t.Errorf("expected 1 marked, got %d", marked)
	}
	if _, err := svc.Notification().MarkRead(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Notification().List(ctx, NotificationFilter{Type: "sms"}); !models.IsInvalidInput(err) {
		t.Errorf("expected unknown type to be refused, got %v", err)
	}
}
