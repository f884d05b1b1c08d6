package main

import (
	"context"

	"pizzapalace/internal/config"
	"pizzapalace/internal/db"
	"pizzapalace/internal/logger"
	productrepo "pizzapalace/internal/repository/product"
	testimonialrepo "pizzapalace/internal/repository/testimonial"
	"pizzapalace/internal/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}).Named("seed")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	res, err := seed.Apply(ctx, productrepo.NewPostgres(pool, log), testimonialrepo.NewPostgres(pool))
	if err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}
	log.Info("seed applied", zap.Int("products", res.Products), zap.Int("testimonials", res.Testimonials))
}
