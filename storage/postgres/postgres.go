package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/config"
	"rideadmin/pkg/logger"
	"rideadmin/storage"
)

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresDB,
	)

	// 🔹 Connection pool
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("postgres ping failed", logger.Error(err))
		return nil, err
	}

	// 🔹 Migrations
	if err := runMigrations(migrationsDir(cfg), url, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

func migrationsDir(cfg config.Config) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "migrations", "postgres")
}

func runMigrations(dir, url string, log logger.ILogger) error {
	m, err := migrate.New("file://"+dir, url)
	if err != nil {
		log.Error("migration init error", logger.String("dir", dir), logger.Error(err))
		return err
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	log.Info("migrations applied", logger.String("dir", dir))
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Truncate empties the operational tables, keeping cities, vehicle categories
// and the customer registry.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE TABLE notifications, transactions, bookings RESTART IDENTITY CASCADE")
	return err
}

func (s *Store) City() storage.ICityStorage { return NewCityRepo(s.pool, s.log) }
func (s *Store) VehicleCategory() storage.IVehicleCategoryStorage {
	return NewCategoryRepo(s.pool, s.log)
}
func (s *Store) Booking() storage.IBookingStorage         { return NewBookingRepo(s.pool, s.log) }
func (s *Store) Transaction() storage.ITransactionStorage { return NewTransactionRepo(s.pool, s.log) }
func (s *Store) Customer() storage.ICustomerStorage       { return NewCustomerRepo(s.pool, s.log) }
func (s *Store) Notification() storage.INotificationStorage {
	return NewNotificationRepo(s.pool, s.log)
}

// notFound maps pgx.ErrNoRows to storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
