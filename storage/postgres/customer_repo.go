package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const customerColumns = `id, name, email, phone, status, join_date, total_rides, total_spent, created_at, updated_at`

type customerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCustomerRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICustomerStorage {
	return &customerRepo{db: db, log: log}
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var (
		c      models.Customer
		spent  float64
		status string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &status, &c.JoinDate, &c.TotalRides, &spent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.CustomerStatus(status)
	c.TotalSpent = models.Money(spent)
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC`
	return r.scanCustomers(ctx, query)
}

func (r *customerRepo) ListByStatus(ctx context.Context, status models.CustomerStatus) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE status = $1 ORDER BY id ASC`
	return r.scanCustomers(ctx, query, string(status))
}

func (r *customerRepo) scanCustomers(ctx context.Context, query string, args ...interface{}) ([]*models.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Find(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1 ORDER BY id ASC LIMIT 1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepo) Add(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	query := `
		INSERT INTO customers (name, email, phone, status, join_date, total_rides, total_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		customer.JoinDate,
		customer.TotalRides,
		customer.TotalSpent.Float64(),
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		r.log.Error("failed to create customer", logger.String("email", customer.Email), logger.Error(err))
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, status = $4, join_date = $5, total_rides = $6, total_spent = $7,
		    updated_at = now()
		WHERE id = $8
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		string(customer.Status),
		customer.JoinDate,
		customer.TotalRides,
		customer.TotalSpent.Float64(),
		customer.ID,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		r.log.Error("failed to update customer", logger.Int64("id", customer.ID), logger.Error(err))
		return nil, notFound(err)
	}
	return customer, nil
}

func (r *customerRepo) Remove(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
