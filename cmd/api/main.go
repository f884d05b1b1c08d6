package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pizzapalace/internal/auth"
	"pizzapalace/internal/cart"
	"pizzapalace/internal/catalog"
	"pizzapalace/internal/checkout"
	"pizzapalace/internal/config"
	"pizzapalace/internal/db"
	"pizzapalace/internal/events"
	"pizzapalace/internal/httpserver"
	"pizzapalace/internal/logger"
	"pizzapalace/internal/profile"
	accountrepo "pizzapalace/internal/repository/account"
	orderrepo "pizzapalace/internal/repository/order"
	productrepo "pizzapalace/internal/repository/product"
	profilerepo "pizzapalace/internal/repository/profile"
	sessionrepo "pizzapalace/internal/repository/session"
	testimonialrepo "pizzapalace/internal/repository/testimonial"
	"pizzapalace/internal/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}).Named("api")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal("open db pool", zap.Error(err))
	}
	defer dbpool.Close()
	// The menu falls back to built-in data and /readyz reports the store, so
	// an unreachable database at boot is not fatal.
	if err := db.Ping(ctx, dbpool); err != nil {
		log.Warn("db not reachable at startup", zap.Error(err))
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("open cart storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()
	carts := cart.NewManager(store, log)

	publisher, err := events.New(cfg.Kafka, log)
	if err != nil {
		log.Fatal("init order events", zap.Error(err))
	}
	defer publisher.Close()

	profiles := profilerepo.NewPostgres(dbpool)
	catalogService := catalog.New(productrepo.NewPostgres(dbpool, log), testimonialrepo.NewPostgres(dbpool), log)
	authService := auth.New(accountrepo.NewPostgres(dbpool, log), sessionrepo.NewPostgres(dbpool), profiles, cfg.Auth, log)
	checkoutService := checkout.New(orderrepo.NewPostgres(dbpool, log), catalogService, publisher, checkout.Pricing{
		TaxRate:     cfg.Checkout.TaxRate,
		DeliveryFee: cfg.Checkout.DeliveryFee,
	}, log)
	profileService := profile.New(profiles, log)

	srv, err := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		Catalog:  catalogService,
		Auth:     authService,
		Carts:    carts,
		Checkout: checkoutService,
		Profiles: profileService,
	}, httpserver.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.Env == "production",
	})
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
