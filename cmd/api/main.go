package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/servicebay-backend/api/routes"
	"github.com/angelmondragon/servicebay-backend/internal/auth"
	"github.com/angelmondragon/servicebay-backend/internal/catalog"
	"github.com/angelmondragon/servicebay-backend/internal/servicerecords"
	"github.com/angelmondragon/servicebay-backend/internal/users"
	"github.com/angelmondragon/servicebay-backend/internal/vehicles"
	"github.com/angelmondragon/servicebay-backend/pkg/auth/session"
	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/logger"
	"github.com/angelmondragon/servicebay-backend/pkg/metrics"
	"github.com/angelmondragon/servicebay-backend/pkg/migrate"
	"github.com/angelmondragon/servicebay-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	usersRepo := users.NewRepository(dbClient.DB())
	workItemsRepo := catalog.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(workItemsRepo, logg)
	if err != nil {
		return err
	}
	vehicleService, err := vehicles.NewService(vehicles.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	advisorService, err := users.NewAdvisorService(usersRepo, cfg.Password)
	if err != nil {
		return err
	}
	recordsService, err := servicerecords.NewService(servicerecords.ServiceParams{
		Records:   servicerecords.NewRepository(dbClient.DB()),
		WorkItems: workItemsRepo,
		Advisors:  usersRepo,
		Workflow:  cfg.Workflow,
		Metrics:   metrics.NewWorkflowMetrics(registry),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Params{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			Gatherer:      registry,
			HTTPMetrics:   metrics.NewHTTPMetrics(registry),
			Auth:          authService,
			AdminRegister: adminRegisterService,
			Catalog:       catalogService,
			Vehicles:      vehicleService,
			Advisors:      advisorService,
			Records:       recordsService,
		}),
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
