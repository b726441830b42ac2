package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"rideadmin/config"
	"rideadmin/pkg/api"
	"rideadmin/pkg/bot"
	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/service"
	"rideadmin/storage"
	"rideadmin/storage/memory"
	"rideadmin/storage/postgres"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer log.Sync()

	ctx := context.Background()

	// 3. Refund policy and ride timezone
	policy, err := fare.ParseRefundPolicy(cfg.RefundPolicy)
	if err != nil {
		log.Error("Invalid REFUND_POLICY", logger.String("policy", cfg.RefundPolicy), logger.Error(err))
		os.Exit(1)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("Invalid TIMEZONE", logger.String("timezone", cfg.Timezone), logger.Error(err))
		os.Exit(1)
	}
	calc := fare.NewCalculator(policy, loc)
	log.Info("Refund policy loaded", logger.String("policy", policy.String()), logger.String("timezone", loc.String()))

	// 4. Initialize Storage
	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", logger.String("driver", cfg.StorageDriver), logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	// 5. Record locks (Redis when configured)
	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr(), Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to redis", logger.String("addr", cfg.RedisAddr()), logger.Error(err))
			os.Exit(1)
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, log)
		log.Info("Using redis record locks", logger.String("addr", cfg.RedisAddr()))
	}

	// 6. Services
	svc := service.New(stg, calc, locker, log)

	// 7. HTTP admin API
	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.NewRouter(svc, log, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("🚀 HTTP API is starting...", logger.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	// 8. Operator bot (optional)
	var adminBot *bot.Bot
	if cfg.AdminBotToken != "" {
		adminBot, err = bot.New(&cfg, svc, log)
		if err != nil {
			log.Error("Failed to initialize admin bot", logger.Error(err))
			os.Exit(1)
		}
		svc.Notification().Subscribe(adminBot)
		go adminBot.Start()
	} else {
		log.Info("ADMIN_BOT_TOKEN is empty, admin bot disabled")
	}

	// 9. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	if adminBot != nil {
		adminBot.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Error(err))
	}
}

func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := postgres.New(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.StorageMemory, "":
		store := memory.New(log)
		if cfg.SeedData {
			if err := storage.Seed(ctx, store); err != nil {
				return nil, err
			}
			log.Info("Seeded in-memory storage")
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}
