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

	"github.com/luxenest/luxenest-backend/api/controllers"
	"github.com/luxenest/luxenest-backend/api/routes"
	"github.com/luxenest/luxenest-backend/internal/cart"
	"github.com/luxenest/luxenest-backend/internal/catalog"
	"github.com/luxenest/luxenest-backend/internal/dashboard"
	"github.com/luxenest/luxenest-backend/internal/importer"
	"github.com/luxenest/luxenest-backend/internal/orders"
	"github.com/luxenest/luxenest-backend/internal/reviews"
	"github.com/luxenest/luxenest-backend/internal/users"
	"github.com/luxenest/luxenest-backend/pkg/config"
	"github.com/luxenest/luxenest-backend/pkg/db"
	"github.com/luxenest/luxenest-backend/pkg/logger"
	"github.com/luxenest/luxenest-backend/pkg/mailer"
	"github.com/luxenest/luxenest-backend/pkg/metrics"
	"github.com/luxenest/luxenest-backend/pkg/migrate"
	"github.com/luxenest/luxenest-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(context.Background(), logg, "dev migrations", err)

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)

	mail := mailer.NewLogMailer(logg)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo, redisClient, cfg.Redis.CatalogTTL, logg)
	requireResource(context.Background(), logg, "catalog service", err)

	cartService, err := cart.NewService(cartRepo, catalogRepo)
	requireResource(context.Background(), logg, "cart service", err)

	ordersService, err := orders.NewService(ordersRepo, cartRepo, usersRepo, usersRepo, dbClient, cfg.Pricing, mail, logg)
	requireResource(context.Background(), logg, "orders service", err)

	reviewsService, err := reviews.NewService(reviewsRepo, catalogRepo, ordersRepo, dbClient, logg)
	requireResource(context.Background(), logg, "reviews service", err)

	usersService, err := users.NewService(usersRepo, catalogRepo, dbClient, cfg.JWT, cfg.Password, mail, logg)
	requireResource(context.Background(), logg, "users service", err)

	productImporter, err := importer.New(catalogRepo, redisClient, cfg.Import, logg)
	requireResource(context.Background(), logg, "product importer", err)

	dashboardService, err := dashboard.NewService(dbClient.DB())
	requireResource(context.Background(), logg, "dashboard service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handlers := routes.Controllers{
		Health:          controllers.NewHealthController(dbClient, redisClient, logg),
		Auth:            controllers.NewAuthController(usersService, logg),
		Products:        controllers.NewProductsController(catalogService, logg),
		Categories:      controllers.NewCategoriesController(catalogService, logg),
		Reviews:         controllers.NewReviewsController(reviewsService, logg),
		Cart:            controllers.NewCartController(cartService, logg),
		Orders:          controllers.NewOrdersController(ordersService, logg),
		Users:           controllers.NewUsersController(usersService, logg),
		AdminProducts:   controllers.NewAdminProductsController(catalogService, productImporter, cfg.Import.MaxUploadMB, logg),
		AdminCategories: controllers.NewAdminCategoriesController(catalogService, logg),
		AdminOrders:     controllers.NewAdminOrdersController(ordersService, logg),
		AdminReviews:    controllers.NewAdminReviewsController(reviewsService, logg),
		AdminUsers:      controllers.NewAdminUsersController(usersService, logg),
		AdminDashboard:  controllers.NewAdminDashboardController(dashboardService, logg),
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, httpMetrics, registry, handlers),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logg.Error(ctx, "error draining api server", err)
	}

	closeErr := multierr.Append(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
