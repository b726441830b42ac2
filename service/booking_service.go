package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type BookingInput struct {
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	PickupLocation  string               `json:"pickup_location"`
	DropLocation    string               `json:"drop_location"`
	BookingDate     string               `json:"booking_date"`
	BookingTime     string               `json:"booking_time"`
	VehicleCategory string               `json:"vehicle_category"`
	Fare            models.Money         `json:"fare"`
	Status          models.BookingStatus `json:"status,omitempty"`
}

type BookingService interface {
	List(ctx context.Context, filter BookingFilter) ([]*models.Booking, error)
	Get(ctx context.Context, id int64) (*models.Booking, error)
	Create(ctx context.Context, in BookingInput) (*models.Booking, error)
	Update(ctx context.Context, id int64, in BookingInput) (*models.Booking, error)
	Delete(ctx context.Context, id int64) error
	Confirm(ctx context.Context, id int64) (*models.Booking, error)
	Complete(ctx context.Context, id int64) (*models.Booking, error)
	Cancel(ctx context.Context, id int64) (*models.Booking, error)
	Estimate(ctx context.Context, category string, miles, hours float64, mode fare.Mode) (*VehicleQuote, error)
}

type bookingService struct {
	stg        storage.IBookingStorage
	categories storage.IVehicleCategoryStorage
	customers  *customerService
	notes      *notificationService
	calc       *fare.Calculator
	locker     lock.Locker
	log        logger.ILogger
}

func newBookingService(d *deps, customers *customerService, notes *notificationService) BookingService {
	return &bookingService{
		stg:        d.stg.Booking(),
		categories: d.stg.VehicleCategory(),
		customers:  customers,
		notes:      notes,
		calc:       d.calc,
		locker:     d.locker,
		log:        d.log,
	}
}

func (s *bookingService) List(ctx context.Context, filter BookingFilter) ([]*models.Booking, error) {
	var (
		bookings []*models.Booking
		err      error
	)
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, models.InvalidInputError{Field: "status", Msg: "unknown booking status " + string(filter.Status)}
		}
		bookings, err = s.stg.ListByStatus(ctx, filter.Status)
	} else {
		bookings, err = s.stg.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := bookings[:0]
	for _, b := range bookings {
		if matches(filter.Query, b.CustomerName, b.CustomerPhone, b.PickupLocation, b.DropLocation) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *bookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := s.stg.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

func (s *bookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	b := in.apply(&models.Booking{})
	b.Status = in.Status
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, b.VehicleCategory); err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, b.CustomerPhone); err != nil {
		return nil, err
	}

	created, err := s.stg.Add(ctx, b)
	if err != nil {
		s.log.Error("failed to create booking", logger.String("customer", in.CustomerName), logger.Error(err))
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.log.Info("booking created", logger.Int64("booking_id", created.ID), logger.String("status", string(created.Status)))
	s.notes.bookingEvent(ctx, created, models.NotificationBookingCreated)
	return created, nil
}

// Update edits a booking's details. Status only moves through Confirm, Complete and Cancel.
func (s *bookingService) Update(ctx context.Context, id int64, in BookingInput) (*models.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, models.InvalidStateError{
			Entity: "booking",
			ID:     strconv.FormatInt(id, 10),
			Status: string(b.Status),
			Action: "update",
		}
	}
	in.apply(b)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, b.VehicleCategory); err != nil {
		return nil, err
	}
	return s.save(ctx, b, "update")
}

func (s *bookingService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	s.log.Info("booking deleted", logger.Int64("booking_id", id))
	return nil
}

func (s *bookingService) Confirm(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, "confirm", (*models.Booking).Confirm)
}

// Complete also credits the ride to the registered customer with the booking's phone.
func (s *bookingService) Complete(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := s.transition(ctx, id, "complete", (*models.Booking).Complete)
	if err != nil {
		return nil, err
	}
	if err := s.customers.recordRide(ctx, b); err != nil {
		s.log.Warning("ride not credited to customer", logger.Int64("booking_id", id), logger.Error(err))
	}
	s.notes.bookingEvent(ctx, b, models.NotificationRideCompleted)
	return b, nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, "cancel", (*models.Booking).Cancel)
}

// Estimate prices a trip for the named category, as the booking form does.
func (s *bookingService) Estimate(ctx context.Context, category string, miles, hours float64, mode fare.Mode) (*VehicleQuote, error) {
	cat, err := s.categories.FindByName(ctx, category)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, models.InvalidInputError{Field: "vehicle_category", Msg: fmt.Sprintf("unknown category %q", category)}
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle category %q: %w", category, err)
	}
	return quoteCategory(s.calc, cat, miles, hours, mode)
}

func (s *bookingService) transition(ctx context.Context, id int64, action string, move func(*models.Booking) error) (*models.Booking, error) {
	unlock, err := s.locker.Lock(ctx, "booking:"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("lock booking %d: %w", id, err)
	}
	defer unlock()

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if err := move(b); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, b, action)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		logger.Int64("booking_id", id),
		logger.String("from", string(from)),
		logger.String("to", string(saved.Status)),
	)
	return saved, nil
}

func (s *bookingService) save(ctx context.Context, b *models.Booking, action string) (*models.Booking, error) {
	saved, err := s.stg.Update(ctx, b)
	if err != nil {
		s.log.Error("failed to save booking", logger.Int64("booking_id", b.ID), logger.String("action", action), logger.Error(err))
		return nil, fmt.Errorf("%s booking %d: %w", action, b.ID, err)
	}
	return saved, nil
}

func (s *bookingService) checkCategory(ctx context.Context, name string) error {
	_, err := s.categories.FindByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return models.InvalidInputError{Field: "vehicle_category", Msg: fmt.Sprintf("unknown category %q", name)}
	}
	if err != nil {
		return fmt.Errorf("find vehicle category %q: %w", name, err)
	}
	return nil
}

// checkCustomer refuses bookings for suspended or banned customers. Unknown
// phones are walk-ins and pass.
func (s *bookingService) checkCustomer(ctx context.Context, phone string) error {
	c, err := s.customers.byPhone(ctx, phone)
	if err != nil || c == nil {
		return err
	}
	return c.CanBook()
}

func (in BookingInput) apply(b *models.Booking) *models.Booking {
	b.CustomerName = in.CustomerName
	b.CustomerPhone = in.CustomerPhone
	b.PickupLocation = in.PickupLocation
	b.DropLocation = in.DropLocation
	b.BookingDate = in.BookingDate
	b.BookingTime = in.BookingTime
	b.VehicleCategory = in.VehicleCategory
	b.Fare = in.Fare
	return b
}
