package service

import (
	"context"
	"fmt"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type CityInput struct {
	Name          string       `json:"name"`
	Country       string       `json:"country"`
	IsActive      bool         `json:"is_active"`
	BaseFare      models.Money `json:"base_fare"`
	PerKmFare     models.Money `json:"per_km_fare"`
	PerMinuteFare models.Money `json:"per_minute_fare"`
	TotalDrivers  int          `json:"total_drivers"`
	TotalRides    int          `json:"total_rides"`
}

type CityQuote struct {
	CityID          int64        `json:"city_id"`
	City            string       `json:"city"`
	Active          bool         `json:"active"`
	DistanceKm      float64      `json:"distance_km"`
	DurationMinutes float64      `json:"duration_minutes"`
	Fare            models.Money `json:"fare"`
	Display         string       `json:"display"`
}

type CityService interface {
	List(ctx context.Context, filter CityFilter) ([]*models.City, error)
	Get(ctx context.Context, id int64) (*models.City, error)
	Create(ctx context.Context, in CityInput) (*models.City, error)
	Update(ctx context.Context, id int64, in CityInput) (*models.City, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (*models.City, error)
	QuoteFare(ctx context.Context, id int64, km, minutes float64) (*CityQuote, error)
}

type cityService struct {
	stg  storage.ICityStorage
	calc *fare.Calculator
	log  logger.ILogger
}

func newCityService(d *deps) CityService {
	return &cityService{
		stg:  d.stg.City(),
		calc: d.calc,
		log:  d.log,
	}
}

func (s *cityService) List(ctx context.Context, filter CityFilter) ([]*models.City, error) {
	cities, err := s.stg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	out := cities[:0]
	for _, c := range cities {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if matches(filter.Query, c.Name, c.Country) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *cityService) Get(ctx context.Context, id int64) (*models.City, error) {
	c, err := s.stg.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get city %d: %w", id, err)
	}
	return c, nil
}

func (s *cityService) Create(ctx context.Context, in CityInput) (*models.City, error) {
	city := in.apply(&models.City{})
	if err := city.Validate(); err != nil {
		return nil, err
	}
	created, err := s.stg.Add(ctx, city)
	if err != nil {
		s.log.Error("failed to create city", logger.String("name", in.Name), logger.Error(err))
		return nil, fmt.Errorf("create city: %w", err)
	}
	s.log.Info("city created", logger.Int64("city_id", created.ID), logger.String("name", created.Name))
	return created, nil
}

func (s *cityService) Update(ctx context.Context, id int64, in CityInput) (*models.City, error) {
	city, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(city)
	if err := city.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.stg.Update(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("update city %d: %w", id, err)
	}
	return updated, nil
}

func (s *cityService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete city %d: %w", id, err)
	}
	s.log.Info("city deleted", logger.Int64("city_id", id))
	return nil
}

func (s *cityService) ToggleActive(ctx context.Context, id int64) (*models.City, error) {
	city, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	city.IsActive = !city.IsActive
	updated, err := s.stg.Update(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("toggle city %d: %w", id, err)
	}
	s.log.Info("city toggled", logger.Int64("city_id", id), logger.Bool("active", updated.IsActive))
	return updated, nil
}

// QuoteFare prices a trip with the city's rates. Inactive cities are quoted too
// and flagged in the result.
func (s *cityService) QuoteFare(ctx context.Context, id int64, km, minutes float64) (*CityQuote, error) {
	city, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := s.calc.CityTripFare(*city, km, minutes)
	if err != nil {
		return nil, err
	}
	return &CityQuote{
		CityID:          city.ID,
		City:            city.Name,
		Active:          city.IsActive,
		DistanceKm:      km,
		DurationMinutes: minutes,
		Fare:            total,
		Display:         total.String(),
	}, nil
}

func (in CityInput) apply(c *models.City) *models.City {
	c.Name = in.Name
	c.Country = in.Country
	c.IsActive = in.IsActive
	c.BaseFare = in.BaseFare
	c.PerKmFare = in.PerKmFare
	c.PerMinuteFare = in.PerMinuteFare
	c.TotalDrivers = in.TotalDrivers
	c.TotalRides = in.TotalRides
	return c
}
