// Package memory keeps every record in process memory. A Store lives for one
// server run and is safe for concurrent use; records handed out are copies.
package memory

import (
	"sync"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

type Store struct {
	mu  sync.RWMutex
	log logger.ILogger

	cities     map[int64]*models.City
	categories map[int64]*models.VehicleCategory
	bookings   map[int64]*models.Booking
	txs        map[string]*models.Transaction
	txOrder    []string
	customers  map[int64]*models.Customer
	notes      map[int64]*models.Notification

	nextCityID     int64
	nextCategoryID int64
	nextBookingID  int64
	nextCustomerID int64
	nextNoteID     int64
}

func New(log logger.ILogger) *Store {
	log.Info("in-memory storage initialised")
	return &Store{
		log:            log,
		cities:         make(map[int64]*models.City),
		categories:     make(map[int64]*models.VehicleCategory),
		bookings:       make(map[int64]*models.Booking),
		txs:            make(map[string]*models.Transaction),
		customers:      make(map[int64]*models.Customer),
		notes:          make(map[int64]*models.Notification),
		nextCityID:     1,
		nextCategoryID: 1,
		nextBookingID:  1,
		nextCustomerID: 1,
		nextNoteID:     1,
	}
}

func (s *Store) Close() {}

func (s *Store) City() storage.ICityStorage                       { return &cityRepo{s: s} }
func (s *Store) VehicleCategory() storage.IVehicleCategoryStorage { return &categoryRepo{s: s} }
func (s *Store) Booking() storage.IBookingStorage                 { return &bookingRepo{s: s} }
func (s *Store) Transaction() storage.ITransactionStorage         { return &transactionRepo{s: s} }
func (s *Store) Customer() storage.ICustomerStorage               { return &customerRepo{s: s} }
func (s *Store) Notification() storage.INotificationStorage       { return &notificationRepo{s: s} }

func cloneCity(c *models.City) *models.City {
	cp := *c
	return &cp
}

func cloneCategory(c *models.VehicleCategory) *models.VehicleCategory {
	cp := *c
	cp.Vehicles = append([]string(nil), c.Vehicles...)
	return &cp
}

func cloneBooking(b *models.Booking) *models.Booking {
	cp := *b
	return &cp
}

func cloneCustomer(c *models.Customer) *models.Customer {
	cp := *c
	return &cp
}

func cloneNotification(n *models.Notification) *models.Notification {
	cp := *n
	return &cp
}

func cloneTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	if t.RefundAmount != nil {
		amount := *t.RefundAmount
		cp.RefundAmount = &amount
	}
	return &cp
}
