package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradehub-app/tradehub-backend/api/routes"
	"github.com/tradehub-app/tradehub-backend/internal/auth"
	"github.com/tradehub-app/tradehub-backend/internal/clients"
	"github.com/tradehub-app/tradehub-backend/internal/inventory"
	"github.com/tradehub-app/tradehub-backend/internal/jobs"
	"github.com/tradehub-app/tradehub-backend/internal/quotes"
	"github.com/tradehub-app/tradehub-backend/internal/suppliers"
	"github.com/tradehub-app/tradehub-backend/pkg/auth/session"
	"github.com/tradehub-app/tradehub-backend/pkg/config"
	"github.com/tradehub-app/tradehub-backend/pkg/db"
	"github.com/tradehub-app/tradehub-backend/pkg/logger"
	"github.com/tradehub-app/tradehub-backend/pkg/migrate"
	"github.com/tradehub-app/tradehub-backend/pkg/redis"
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

	authService, err := auth.NewService(
		auth.NewRepository(dbClient.DB()),
		dbClient,
		sessionManager,
		cfg.JWT,
		cfg.Password,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	clientsRepo := clients.NewRepository(dbClient.DB())
	clientsService, err := clients.NewService(clientsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	suppliersService, err := suppliers.NewService(suppliers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	jobsRepo := jobs.NewRepository(dbClient.DB())
	jobsService, err := jobs.NewService(jobsRepo, dbClient, clientsRepo, inventoryService)
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(
		quotes.NewRepository(dbClient.DB()),
		dbClient,
		clientsRepo,
		jobsRepo,
		inventoryService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Registry:  prometheus.NewRegistry(),
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Auth:      authService,
			Clients:   clientsService,
			Suppliers: suppliersService,
			Inventory: inventoryService,
			Quotes:    quotesService,
			Jobs:      jobsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
