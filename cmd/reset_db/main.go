package main

import (
	"context"
	"os"

	"rideadmin/config"
	"rideadmin/pkg/logger"
	"rideadmin/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	// Cities and vehicle categories are reference data and survive a reset.
	if err := pg.Truncate(context.Background()); err != nil {
		log.Error("Failed to truncate tables", logger.Error(err))
		return
	}
	log.Info("Successfully truncated bookings and transactions tables.")
}
