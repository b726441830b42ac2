package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

// VehicleInput carries the category form. Vehicles is a comma separated list.
type VehicleInput struct {
	Name       string       `json:"name"`
	Vehicles   string       `json:"vehicles"`
	IsActive   bool         `json:"is_active"`
	BaseFare   models.Money `json:"base_fare"`
	PerMile    models.Money `json:"per_mile"`
	HourlyRate models.Money `json:"hourly_rate"`
}

type VehicleQuote struct {
	CategoryID    int64        `json:"category_id"`
	Category      string       `json:"category"`
	Active        bool         `json:"active"`
	Mode          fare.Mode    `json:"mode"`
	DistanceMiles float64      `json:"distance_miles"`
	DurationHours float64      `json:"duration_hours"`
	Fare          models.Money `json:"fare"`
	Display       string       `json:"display"`
}

type VehicleService interface {
	List(ctx context.Context, filter VehicleFilter) ([]*models.VehicleCategory, error)
	Get(ctx context.Context, id int64) (*models.VehicleCategory, error)
	Create(ctx context.Context, in VehicleInput) (*models.VehicleCategory, error)
	Update(ctx context.Context, id int64, in VehicleInput) (*models.VehicleCategory, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (*models.VehicleCategory, error)
	QuoteFare(ctx context.Context, id int64, miles, hours float64, mode fare.Mode) (*VehicleQuote, error)
}

type vehicleService struct {
	stg  storage.IVehicleCategoryStorage
	calc *fare.Calculator
	log  logger.ILogger
}

func newVehicleService(d *deps) VehicleService {
	return &vehicleService{
		stg:  d.stg.VehicleCategory(),
		calc: d.calc,
		log:  d.log,
	}
}

func (s *vehicleService) List(ctx context.Context, filter VehicleFilter) ([]*models.VehicleCategory, error) {
	cats, err := s.stg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicle categories: %w", err)
	}
	out := cats[:0]
	for _, c := range cats {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if matches(filter.Query, append([]string{c.Name}, c.Vehicles...)...) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *vehicleService) Get(ctx context.Context, id int64) (*models.VehicleCategory, error) {
	c, err := s.stg.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vehicle category %d: %w", id, err)
	}
	return c, nil
}

func (s *vehicleService) Create(ctx context.Context, in VehicleInput) (*models.VehicleCategory, error) {
	cat := in.apply(&models.VehicleCategory{})
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, cat.Name, 0); err != nil {
		return nil, err
	}
	created, err := s.stg.Add(ctx, cat)
	if err != nil {
		s.log.Error("failed to create vehicle category", logger.String("name", in.Name), logger.Error(err))
		return nil, fmt.Errorf("create vehicle category: %w", err)
	}
	s.log.Info("vehicle category created", logger.Int64("category_id", created.ID), logger.String("name", created.Name))
	return created, nil
}

func (s *vehicleService) Update(ctx context.Context, id int64, in VehicleInput) (*models.VehicleCategory, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(cat)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, cat.Name, id); err != nil {
		return nil, err
	}
	updated, err := s.stg.Update(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("update vehicle category %d: %w", id, err)
	}
	return updated, nil
}

func (s *vehicleService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle category %d: %w", id, err)
	}
	s.log.Info("vehicle category deleted", logger.Int64("category_id", id))
	return nil
}

// ToggleActive flips the category. A category without vehicles cannot be activated.
func (s *vehicleService) ToggleActive(ctx context.Context, id int64) (*models.VehicleCategory, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cat.IsActive && len(cat.Vehicles) == 0 {
		return nil, models.InvalidStateError{
			Entity: "vehicle category",
			ID:     strconv.FormatInt(id, 10),
			Status: "empty",
			Action: "activate",
		}
	}
	cat.IsActive = !cat.IsActive
	updated, err := s.stg.Update(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("toggle vehicle category %d: %w", id, err)
	}
	s.log.Info("vehicle category toggled", logger.Int64("category_id", id), logger.Bool("active", updated.IsActive))
	return updated, nil
}

func (s *vehicleService) QuoteFare(ctx context.Context, id int64, miles, hours float64, mode fare.Mode) (*VehicleQuote, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return quoteCategory(s.calc, cat, miles, hours, mode)
}

func (s *vehicleService) checkNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.stg.FindByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find vehicle category %q: %w", name, err)
	}
	if existing.ID != selfID {
		return models.InvalidInputError{Field: "name", Msg: fmt.Sprintf("category %q already exists", name)}
	}
	return nil
}

func quoteCategory(calc *fare.Calculator, cat *models.VehicleCategory, miles, hours float64, mode fare.Mode) (*VehicleQuote, error) {
	if mode == "" {
		mode = fare.ModeDistance
	}
	total, err := calc.TripFare(*cat, miles, hours, mode)
	if err != nil {
		return nil, err
	}
	return &VehicleQuote{
		CategoryID:    cat.ID,
		Category:      cat.Name,
		Active:        cat.IsActive,
		Mode:          mode,
		DistanceMiles: miles,
		DurationHours: hours,
		Fare:          total,
		Display:       total.String(),
	}, nil
}

func (in VehicleInput) apply(c *models.VehicleCategory) *models.VehicleCategory {
	c.Name = strings.TrimSpace(in.Name)
	c.Vehicles = models.ParseVehicleList(in.Vehicles)
	c.IsActive = in.IsActive
	c.BaseFare = in.BaseFare
	c.PerMile = in.PerMile
	c.HourlyRate = in.HourlyRate
	return c
}
