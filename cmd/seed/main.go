package main

import (
	"context"
	"log"
	"os"

	"grocery-storefront/internal/config"
	"grocery-storefront/internal/db"
	categoryrepo "grocery-storefront/internal/repository/category"
	productrepo "grocery-storefront/internal/repository/product"
	"grocery-storefront/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBPool)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool))
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied products=%d", n)
}
