package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type CustomerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JoinDate string `json:"join_date,omitempty"`
}

type CustomerService interface {
	List(ctx context.Context, filter CustomerFilter) ([]*models.Customer, error)
	Get(ctx context.Context, id int64) (*models.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id int64, in CustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
	Suspend(ctx context.Context, id int64) (*models.Customer, error)
	Activate(ctx context.Context, id int64) (*models.Customer, error)
	Ban(ctx context.Context, id int64) (*models.Customer, error)
}

type customerService struct {
	stg    storage.ICustomerStorage
	calc   *fare.Calculator
	locker lock.Locker
	log    logger.ILogger
	now    func() time.Time
}

func newCustomerService(d *deps) *customerService {
	return &customerService{
		stg:    d.stg.Customer(),
		calc:   d.calc,
		locker: d.locker,
		log:    d.log,
		now:    d.now,
	}
}

// List searches by name or email.
func (s *customerService) List(ctx context.Context, filter CustomerFilter) ([]*models.Customer, error) {
	var (
		customers []*models.Customer
		err       error
	)
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, models.InvalidInputError{Field: "status", Msg: "unknown customer status " + string(filter.Status)}
		}
		customers, err = s.stg.ListByStatus(ctx, filter.Status)
	} else {
		customers, err = s.stg.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := customers[:0]
	for _, c := range customers {
		if matches(filter.Query, c.Name, c.Email) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.stg.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	c := in.apply(&models.Customer{Status: models.CustomerActive})
	if c.JoinDate == "" {
		c.JoinDate = s.now().In(s.calc.Location()).Format(models.DateLayout)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}

	created, err := s.stg.Add(ctx, c)
	if err != nil {
		s.log.Error("failed to create customer", logger.String("email", c.Email), logger.Error(err))
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.log.Info("customer created", logger.Int64("customer_id", created.ID))
	return created, nil
}

// Update edits contact details. Status moves through Suspend, Activate and Ban;
// ride totals only through completed bookings.
func (s *customerService) Update(ctx context.Context, id int64, in CustomerInput) (*models.Customer, error) {
	unlock, err := s.locker.Lock(ctx, customerKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock customer %d: %w", id, err)
	}
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, c); err != nil {
		return nil, err
	}
	return s.save(ctx, c, "update")
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	s.log.Info("customer deleted", logger.Int64("customer_id", id))
	return nil
}

func (s *customerService) Suspend(ctx context.Context, id int64) (*models.Customer, error) {
	return s.transition(ctx, id, "suspend", (*models.Customer).Suspend)
}

func (s *customerService) Activate(ctx context.Context, id int64) (*models.Customer, error) {
	return s.transition(ctx, id, "activate", (*models.Customer).Activate)
}

func (s *customerService) Ban(ctx context.Context, id int64) (*models.Customer, error) {
	return s.transition(ctx, id, "ban", (*models.Customer).Ban)
}

func (s *customerService) transition(ctx context.Context, id int64, action string, move func(*models.Customer) error) (*models.Customer, error) {
	unlock, err := s.locker.Lock(ctx, customerKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock customer %d: %w", id, err)
	}
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := move(c); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, c, action)
	if err != nil {
		return nil, err
	}
	s.log.Info("customer status changed",
		logger.Int64("customer_id", id),
		logger.String("from", string(from)),
		logger.String("to", string(saved.Status)),
	)
	return saved, nil
}

// byPhone returns the registered customer for a booking phone, or nil for walk-ins.
func (s *customerService) byPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := s.stg.FindByPhone(ctx, strings.TrimSpace(phone))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by phone: %w", err)
	}
	return c, nil
}

// recordRide adds a completed booking to its customer's totals.
func (s *customerService) recordRide(ctx context.Context, b *models.Booking) error {
	c, err := s.byPhone(ctx, b.CustomerPhone)
	if err != nil || c == nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, customerKey(c.ID))
	if err != nil {
		return fmt.Errorf("lock customer %d: %w", c.ID, err)
	}
	defer unlock()

	c, err = s.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	c.RecordRide(b.Fare)
	_, err = s.save(ctx, c, "record ride")
	return err
}

func (s *customerService) checkUnique(ctx context.Context, c *models.Customer) error {
	if other, err := s.stg.FindByEmail(ctx, c.Email); err == nil && other.ID != c.ID {
		return models.InvalidInputError{Field: "email", Msg: fmt.Sprintf("%q is already registered", c.Email)}
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("find customer by email: %w", err)
	}
	if other, err := s.stg.FindByPhone(ctx, c.Phone); err == nil && other.ID != c.ID {
		return models.InvalidInputError{Field: "phone", Msg: fmt.Sprintf("%q is already registered", c.Phone)}
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("find customer by phone: %w", err)
	}
	return nil
}

func (s *customerService) save(ctx context.Context, c *models.Customer, action string) (*models.Customer, error) {
	saved, err := s.stg.Update(ctx, c)
	if err != nil {
		s.log.Error("failed to save customer", logger.Int64("customer_id", c.ID), logger.String("action", action), logger.Error(err))
		return nil, fmt.Errorf("%s customer %d: %w", action, c.ID, err)
	}
	return saved, nil
}

func customerKey(id int64) string {
	return "customer:" + strconv.FormatInt(id, 10)
}

func (in CustomerInput) apply(c *models.Customer) *models.Customer {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	if in.JoinDate != "" {
		c.JoinDate = in.JoinDate
	}
	return c
}
