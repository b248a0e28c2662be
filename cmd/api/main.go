package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/config"
	"github.com/nodebridgetech/misterticket-sub000/internal/logger"
	"github.com/nodebridgetech/misterticket-sub000/internal/storage/postgres"
	transporthttp "github.com/nodebridgetech/misterticket-sub000/internal/transport/http"
	"github.com/nodebridgetech/misterticket-sub000/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	dotenvErr := godotenv.Load()

	log := logger.New(config.String(config.LogLevel))
	if dotenvErr != nil && !os.IsNotExist(dotenvErr) {
		log.WithError(dotenvErr).Warn("failed to load .env")
	}

	port := config.String(config.Port)
	dbURL := config.String(config.DatabaseURL)
	corsOrigins := config.Strings(config.CORSOrigins)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, dbURL)
	if err != nil {
		log.WithError(err).Fatal("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.WithError(err).Fatal("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	sysClock := clock.NewSystem()

	purchaseSvc := app.NewPurchaseService(postgres.NewPurchaseRepository(pool), sysClock)
	redemptionSvc := app.NewRedemptionService(postgres.NewRedemptionRepository(pool), sysClock)
	balanceSvc := app.NewBalanceService(postgres.NewBalanceRepository(pool), sysClock)
	attributionSvc := app.NewAttributionService(postgres.NewAttributionRepository(pool), sysClock)
	adminSvc := app.NewAdminService(postgres.NewAdminRepository(pool), sysClock)

	router := transporthttp.NewRouter(purchaseSvc, redemptionSvc, balanceSvc, attributionSvc, adminSvc)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, router), log)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	log.WithField("port", port).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
