package storage

import (
	"context"
	"errors"

	"rideadmin/pkg/models"
)

var ErrNotFound = errors.New("not found")

type IStorage interface {
	City() ICityStorage
	VehicleCategory() IVehicleCategoryStorage
	Booking() IBookingStorage
	Transaction() ITransactionStorage
	Customer() ICustomerStorage
	Notification() INotificationStorage
	Close()
}

type ICityStorage interface {
	List(ctx context.Context) ([]*models.City, error)
	Find(ctx context.Context, id int64) (*models.City, error)
	Add(ctx context.Context, city *models.City) (*models.City, error)
	Update(ctx context.Context, city *models.City) (*models.City, error)
	Remove(ctx context.Context, id int64) error
}

type IVehicleCategoryStorage interface {
	List(ctx context.Context) ([]*models.VehicleCategory, error)
	Find(ctx context.Context, id int64) (*models.VehicleCategory, error)
	FindByName(ctx context.Context, name string) (*models.VehicleCategory, error)
	Add(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error)
	Update(ctx context.Context, cat *models.VehicleCategory) (*models.VehicleCategory, error)
	Remove(ctx context.Context, id int64) error
}

type IBookingStorage interface {
	List(ctx context.Context) ([]*models.Booking, error)
	ListByStatus(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error)
	Find(ctx context.Context, id int64) (*models.Booking, error)
	Add(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	Remove(ctx context.Context, id int64) error
}

type ITransactionStorage interface {
	List(ctx context.Context) ([]*models.Transaction, error)
	ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*models.Transaction, error)
	ListByPayment(ctx context.Context, paymentID string) ([]*models.Transaction, error)
	Find(ctx context.Context, id string) (*models.Transaction, error)
	Add(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	Remove(ctx context.Context, id string) error
}

type ICustomerStorage interface {
	List(ctx context.Context) ([]*models.Customer, error)
	ListByStatus(ctx context.Context, status models.CustomerStatus) ([]*models.Customer, error)
	Find(ctx context.Context, id int64) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	Add(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Remove(ctx context.Context, id int64) error
}

// INotificationStorage lists newest first.
type INotificationStorage interface {
	List(ctx context.Context) ([]*models.Notification, error)
	Find(ctx context.Context, id int64) (*models.Notification, error)
	Add(ctx context.Context, n *models.Notification) (*models.Notification, error)
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
}
