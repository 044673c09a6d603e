package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmarquez/autoglass-backend/api/routes"
	"github.com/dmarquez/autoglass-backend/internal/addresses"
	"github.com/dmarquez/autoglass-backend/internal/appointments"
	"github.com/dmarquez/autoglass-backend/internal/auth"
	"github.com/dmarquez/autoglass-backend/internal/customers"
	"github.com/dmarquez/autoglass-backend/internal/dashboard"
	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/internal/users"
	"github.com/dmarquez/autoglass-backend/internal/vehicles"
	"github.com/dmarquez/autoglass-backend/pkg/auth/session"
	"github.com/dmarquez/autoglass-backend/pkg/config"
	"github.com/dmarquez/autoglass-backend/pkg/db"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/metrics"
	"github.com/dmarquez/autoglass-backend/pkg/migrate"
	"github.com/dmarquez/autoglass-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	loc := cfg.App.Location()
	gormDB := dbClient.DB()

	usersRepo := users.NewRepository(gormDB)
	customersRepo := customers.NewRepository(gormDB)
	addressesRepo := addresses.NewRepository(gormDB)
	vehiclesRepo := vehicles.NewRepository(gormDB)
	insuranceRepo := insurance.NewRepository(gormDB)
	appointmentsRepo := appointments.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	authService := auth.NewService(usersRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	customersService := customers.NewService(dbClient, customersRepo, addressesRepo, vehiclesRepo, logg)
	appointmentsService := appointments.NewService(
		dbClient,
		customersRepo,
		addressesRepo,
		vehiclesRepo,
		insuranceRepo,
		appointmentsRepo,
		logg,
		loc,
	)
	insuranceService := insurance.NewService(insuranceRepo, logg)
	dashboardService := dashboard.NewService(dashboardRepo, loc)

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Location:     loc,
		DB:           dbClient,
		Redis:        redisClient,
		Sessions:     sessionManager,
		Registry:     registry,
		HTTPMetrics:  httpMetrics,
		Auth:         authService,
		Appointments: appointmentsService,
		Customers:    customersService,
		Insurance:    insuranceService,
		Dashboard:    dashboardService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
