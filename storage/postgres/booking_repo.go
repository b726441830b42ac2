package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const bookingColumns = `id, customer_name, customer_phone, pickup_location, drop_location, booking_date, booking_time,
	vehicle_category, fare, status, created_at, updated_at`

type bookingRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewBookingRepo(db *pgxpool.Pool, log logger.ILogger) storage.IBookingStorage {
	return &bookingRepo{db: db, log: log}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var (
		b      models.Booking
		fare   float64
		status string
	)
	err := row.Scan(
		&b.ID, &b.CustomerName, &b.CustomerPhone, &b.PickupLocation, &b.DropLocation,
		&b.BookingDate, &b.BookingTime, &b.VehicleCategory, &fare, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Fare = models.Money(fare)
	b.Status = models.BookingStatus(status)
	return &b, nil
}

func (r *bookingRepo) List(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id ASC`
	return r.scanBookings(ctx, query)
}

func (r *bookingRepo) ListByStatus(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY id ASC`
	return r.scanBookings(ctx, query, string(status))
}

func (r *bookingRepo) scanBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) Find(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("failed to get booking by id", logger.Int64("id", id), logger.Error(err))
		return nil, notFound(err)
	}
	return b, nil
}

func (r *bookingRepo) Add(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (customer_name, customer_phone, pickup_location, drop_location, booking_date, booking_time,
		                      vehicle_category, fare, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.PickupLocation,
		booking.DropLocation,
		booking.BookingDate,
		booking.BookingTime,
		booking.VehicleCategory,
		booking.Fare.Float64(),
		string(booking.Status),
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		r.log.Error("failed to create booking", logger.Error(err))
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET customer_name = $1, customer_phone = $2, pickup_location = $3, drop_location = $4,
		    booking_date = $5, booking_time = $6, vehicle_category = $7, fare = $8, status = $9, updated_at = now()
		WHERE id = $10
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.PickupLocation,
		booking.DropLocation,
		booking.BookingDate,
		booking.BookingTime,
		booking.VehicleCategory,
		booking.Fare.Float64(),
		string(booking.Status),
		booking.ID,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		r.log.Error("failed to update booking", logger.Int64("id", booking.ID), logger.Error(err))
		return nil, notFound(err)
	}
	return booking, nil
}

func (r *bookingRepo) Remove(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
