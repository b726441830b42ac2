package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const cityColumns = `id, name, country, is_active, base_fare, per_km_fare, per_minute_fare, total_drivers, total_rides, created_at`

type cityRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCityRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICityStorage {
	return &cityRepo{db: db, log: log}
}

func scanCity(row pgx.Row) (*models.City, error) {
	var c models.City
	var base, perKm, perMinute float64
	err := row.Scan(&c.ID, &c.Name, &c.Country, &c.IsActive, &base, &perKm, &perMinute, &c.TotalDrivers, &c.TotalRides, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.BaseFare = models.Money(base)
	c.PerKmFare = models.Money(perKm)
	c.PerMinuteFare = models.Money(perMinute)
	return &c, nil
}

func (r *cityRepo) List(ctx context.Context) ([]*models.City, error) {
	query := `SELECT ` + cityColumns + ` FROM cities ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *cityRepo) Find(ctx context.Context, id int64) (*models.City, error) {
	query := `SELECT ` + cityColumns + ` FROM cities WHERE id = $1`
	c, err := scanCity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *cityRepo) Add(ctx context.Context, city *models.City) (*models.City, error) {
	query := `
		INSERT INTO cities (name, country, is_active, base_fare, per_km_fare, per_minute_fare, total_drivers, total_rides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		city.Name,
		city.Country,
		city.IsActive,
		city.BaseFare.Float64(),
		city.PerKmFare.Float64(),
		city.PerMinuteFare.Float64(),
		city.TotalDrivers,
		city.TotalRides,
	).Scan(&city.ID, &city.CreatedAt)
	if err != nil {
		r.log.Error("failed to create city", logger.Error(err))
		return nil, err
	}
	return city, nil
}

func (r *cityRepo) Update(ctx context.Context, city *models.City) (*models.City, error) {
	query := `
		UPDATE cities
		SET name = $1, country = $2, is_active = $3, base_fare = $4, per_km_fare = $5, per_minute_fare = $6,
		    total_drivers = $7, total_rides = $8
		WHERE id = $9
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		city.Name,
		city.Country,
		city.IsActive,
		city.BaseFare.Float64(),
		city.PerKmFare.Float64(),
		city.PerMinuteFare.Float64(),
		city.TotalDrivers,
		city.TotalRides,
		city.ID,
	).Scan(&city.CreatedAt)
	if err != nil {
		r.log.Error("failed to update city", logger.Int64("id", city.ID), logger.Error(err))
		return nil, notFound(err)
	}
	return city, nil
}

func (r *cityRepo) Remove(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
