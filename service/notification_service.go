package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

// Notifier delivers a stored notification outside the process, for example
// to the operator's Telegram chat.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type NotificationInput struct {
	Type         models.NotificationType `json:"type"`
	Recipient    string                  `json:"recipient"`
	CustomerName string                  `json:"customer_name,omitempty"`
	Title        string                  `json:"title"`
	Message      string                  `json:"message"`
}

type NotificationStats struct {
	Total           int `json:"total"`
	Unread          int `json:"unread"`
	BookingsCreated int `json:"bookings_created"`
	RidesCompleted  int `json:"rides_completed"`
}

type NotificationService interface {
	List(ctx context.Context, filter NotificationFilter) ([]*models.Notification, error)
	Stats(ctx context.Context) (*NotificationStats, error)
	Send(ctx context.Context, in NotificationInput) (*models.Notification, error)
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Subscribe(n Notifier)
}

type notificationService struct {
	stg storage.INotificationStorage
	log logger.ILogger

	mu          sync.RWMutex
	subscribers []Notifier
}

func newNotificationService(d *deps) *notificationService {
	return &notificationService{
		stg: d.stg.Notification(),
		log: d.log,
	}
}

func (s *notificationService) List(ctx context.Context, filter NotificationFilter) ([]*models.Notification, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, models.InvalidInputError{Field: "type", Msg: "unknown notification type " + string(filter.Type)}
	}
	notes, err := s.stg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := notes[:0]
	for _, n := range notes {
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *notificationService) Stats(ctx context.Context) (*NotificationStats, error) {
	notes, err := s.stg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification stats: %w", err)
	}
	st := &NotificationStats{Total: len(notes)}
	for _, n := range notes {
		if !n.Read {
			st.Unread++
		}
		switch n.Type {
		case models.NotificationBookingCreated:
			st.BookingsCreated++
		case models.NotificationRideCompleted:
			st.RidesCompleted++
		}
	}
	return st, nil
}

// Send records an operator message. Booking events cannot be sent by hand.
func (s *notificationService) Send(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if in.Type == "" {
		in.Type = models.NotificationAnnouncement
	}
	if !in.Type.Manual() {
		return nil, models.InvalidInputError{Field: "type", Msg: fmt.Sprintf("%q cannot be sent manually", in.Type)}
	}
	n := &models.Notification{
		Type:         in.Type,
		Title:        strings.TrimSpace(in.Title),
		Message:      strings.TrimSpace(in.Message),
		Recipient:    in.Recipient,
		CustomerName: strings.TrimSpace(in.CustomerName),
	}
	if n.Recipient == models.RecipientAdmin {
		return nil, models.InvalidInputError{Field: "recipient", Msg: "admin notifications are raised by bookings"}
	}
	if n.Recipient == models.RecipientSpecificUser && n.CustomerName == "" {
		return nil, models.InvalidInputError{Field: "customer_name", Msg: "is required for a specific user"}
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return s.publish(ctx, n)
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := s.stg.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int, error) {
	marked, err := s.stg.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	s.log.Info("notifications marked read", logger.Int("count", marked))
	return marked, nil
}

func (s *notificationService) Subscribe(n Notifier) {
	if n == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, n)
	s.mu.Unlock()
}

// publish stores n and hands it to every subscriber. Delivery failures are
// logged; the notification stays stored and unread.
func (s *notificationService) publish(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	created, err := s.stg.Add(ctx, n)
	if err != nil {
		s.log.Error("failed to store notification", logger.String("type", string(n.Type)), logger.Error(err))
		return nil, fmt.Errorf("store notification: %w", err)
	}

	s.mu.RLock()
	subs := append([]Notifier(nil), s.subscribers...)
	s.mu.RUnlock()
	for _, sub := range subs {
		if err := sub.Notify(ctx, created); err != nil {
			s.log.Warning("notification not delivered",
				logger.Int64("notification_id", created.ID),
				logger.Error(err),
			)
		}
	}
	s.log.Info("notification published",
		logger.Int64("notification_id", created.ID),
		logger.String("type", string(created.Type)),
		logger.String("recipient", created.Recipient),
	)
	return created, nil
}

// bookingEvent raises an admin notification for a booking. Failures are
// logged and never undo the booking change.
func (s *notificationService) bookingEvent(ctx context.Context, b *models.Booking, t models.NotificationType) {
	n := &models.Notification{
		Type:         t,
		Recipient:    models.RecipientAdmin,
		CustomerName: b.CustomerName,
		BookingID:    b.ID,
	}
	switch t {
	case models.NotificationBookingCreated:
		n.Title = "New Booking Created"
		n.Message = fmt.Sprintf("%s has booked a ride from %s to %s", b.CustomerName, b.PickupLocation, b.DropLocation)
	case models.NotificationRideCompleted:
		n.Title = "Ride Completed"
		n.Message = fmt.Sprintf("%s's ride has been completed successfully", b.CustomerName)
	}
	if _, err := s.publish(ctx, n); err != nil {
		s.log.Warning("booking notification dropped", logger.Int64("booking_id", b.ID), logger.Error(err))
	}
}
