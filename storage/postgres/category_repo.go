package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const categoryColumns = `id, name, vehicles, is_active, base_fare, per_mile, hourly_rate, created_at`

type categoryRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCategoryRepo(db *pgxpool.Pool, log logger.ILogger) storage.IVehicleCategoryStorage {
	return &categoryRepo{db: db, log: log}
}

func scanCategory(row pgx.Row) (*models.VehicleCategory, error) {
	var c models.VehicleCategory
	var base, perMile, hourly float64
	err := row.Scan(&c.ID, &c.Name, &c.Vehicles, &c.IsActive, &base, &perMile, &hourly, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.BaseFare = models.Money(base)
	c.PerMile = models.Money(perMile)
	c.HourlyRate = models.Money(hourly)
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.VehicleCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM vehicle_categories ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*models.VehicleCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *categoryRepo) Find(ctx context.Context, id int64) (*models.VehicleCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM vehicle_categories WHERE id = $1`
	c, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*models.VehicleCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM vehicle_categories WHERE lower(name) = lower($1)`
	c, err := scanCategory(r.db.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *categoryRepo) Add(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error) {
	query := `
		INSERT INTO vehicle_categories (name, vehicles, is_active, base_fare, per_mile, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		cat.Name,
		cat.Vehicles,
		cat.IsActive,
		cat.BaseFare.Float64(),
		cat.PerMile.Float64(),
		cat.HourlyRate.Float64(),
	).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		r.log.Error("failed to create vehicle category", logger.Error(err))
		return nil, err
	}
	return cat, nil
}

func (r *categoryRepo) Update(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error) {
	query := `
		UPDATE vehicle_categories
		SET name = $1, vehicles = $2, is_active = $3, base_fare = $4, per_mile = $5, hourly_rate = $6
		WHERE id = $7
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		cat.Name,
		cat.Vehicles,
		cat.IsActive,
		cat.BaseFare.Float64(),
		cat.PerMile.Float64(),
		cat.HourlyRate.Float64(),
		cat.ID,
	).Scan(&cat.CreatedAt)
	if err != nil {
		r.log.Error("failed to update vehicle category", logger.Int64("id", cat.ID), logger.Error(err))
		return nil, notFound(err)
	}
	return cat, nil
}

func (r *categoryRepo) Remove(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM vehicle_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
