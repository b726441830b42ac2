package service

import (
	"time"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/storage"
)

type IServiceManager interface {
	City() CityService
	Vehicle() VehicleService
	Booking() BookingService
	Transaction() TransactionService
	Customer() CustomerService
	Notification() NotificationService
	Dashboard() DashboardService
}

type service struct {
	cityService         CityService
	vehicleService      VehicleService
	bookingService      BookingService
	transactionService  TransactionService
	customerService     CustomerService
	notificationService NotificationService
	dashboardService    DashboardService
}

type Option func(*deps)

// WithClock replaces time.Now for every service.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

type deps struct {
	stg    storage.IStorage
	calc   *fare.Calculator
	locker lock.Locker
	log    logger.ILogger
	now    func() time.Time
}

func New(stg storage.IStorage, calc *fare.Calculator, locker lock.Locker, log logger.ILogger, opts ...Option) IServiceManager {
	if calc == nil {
		calc = fare.NewCalculator(fare.DefaultRefundPolicy(), time.UTC)
	}
	if locker == nil {
		locker = lock.NewLocal()
	}
	d := &deps{stg: stg, calc: calc, locker: locker, log: log, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	customers := newCustomerService(d)
	notes := newNotificationService(d)

	return &service{
		cityService:         newCityService(d),
		vehicleService:      newVehicleService(d),
		bookingService:      newBookingService(d, customers, notes),
		transactionService:  newTransactionService(d),
		customerService:     customers,
		notificationService: notes,
		dashboardService:    newDashboardService(d),
	}
}

func (s *service) City() CityService {
	return s.cityService
}

func (s *service) Vehicle() VehicleService {
	return s.vehicleService
}

func (s *service) Booking() BookingService {
	return s.bookingService
}

func (s *service) Transaction() TransactionService {
	return s.transactionService
}

func (s *service) Customer() CustomerService {
	return s.customerService
}

func (s *service) Notification() NotificationService {
	return s.notificationService
}

func (s *service) Dashboard() DashboardService {
	return s.dashboardService
}
