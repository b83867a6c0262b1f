// Package server boots the application: config, storage, migrations,
// seed data, routes, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/app/routes"
	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/config"
	"github.com/shashiranjanraj/shoplist/database/seeders"
	"github.com/shashiranjanraj/shoplist/internal/pexels"
	"github.com/shashiranjanraj/shoplist/pkg/cache"
	"github.com/shashiranjanraj/shoplist/pkg/database"
	"github.com/shashiranjanraj/shoplist/pkg/logger"
	"github.com/shashiranjanraj/shoplist/pkg/migration"
)

// Run boots everything and blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func Run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		if sink, err := logger.EnableMongoSink(uri, config.LogMongoDB()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			defer sink.Close()
		}
	}

	db, err := database.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := migration.New(db).Run(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis is an optional read cache; the store works without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, list caching disabled", "error", err)
	}
	defer cache.Disconnect()

	productRepo := repositories.NewProductRepository(db)
	if err := seedIfEmpty(productRepo); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := seeders.SeedAdminUser(db); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	resolver := services.NewImageResolver(pexels.NewFromConfig())
	productService := services.NewProductService(productRepo, resolver)
	defer productService.Shutdown()

	authService := services.NewAuthService(repositories.NewUserRepository(db))

	router, _ := routes.Register(routes.Deps{
		Products: productService,
		Auth:     authService,
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func seedIfEmpty(repo *repositories.ProductRepository) error {
	seeded, err := repo.SeedIfEmpty(seeders.Catalog())
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded starter catalog", "products", len(seeders.Catalog()))
	}
	return nil
}
