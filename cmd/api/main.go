package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"grocery-storefront/internal/catalog"
	"grocery-storefront/internal/config"
	"grocery-storefront/internal/db"
	"grocery-storefront/internal/httpserver"
	"grocery-storefront/internal/payment"
	categoryrepo "grocery-storefront/internal/repository/category"
	productrepo "grocery-storefront/internal/repository/product"
	anonymoussvc "grocery-storefront/internal/service/anonymous"
	cartsvc "grocery-storefront/internal/service/cart"
	categorysvc "grocery-storefront/internal/service/category"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var dbpool *pgxpool.Pool
	var cat *catalog.Catalog
	var err error
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		dbpool, err = db.Connect(ctx, cfg.DBConnString, cfg.DBPool)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
		cat, err = catalog.LoadFrom(ctx, productrepo.NewPostgres(dbpool, logger), categoryrepo.NewPostgres(dbpool))
	default:
		cat, err = catalog.LoadEmbedded()
	}
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	logger.Printf("catalog loaded source=%s products=%d categories=%d", cfg.CatalogSource, cat.Len(), len(cat.Categories()))

	images := checkoutsvc.NewImageResolver(cfg.ImageCDNBase, cfg.SiteURL)
	builder := checkoutsvc.NewBuilder(checkoutsvc.Options{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		StandardDeliveryFee:   cfg.DeliveryFee,
		Currency:              cfg.Currency,
	}, images)
	provider := payment.NewStripe(cfg.StripeSecretKey, cfg.SiteURL, logger)
	checkoutService := checkoutsvc.New(builder, provider, cat, logger)
	carts := cartsvc.NewSessions()
	anonymousService := anonymoussvc.New(cfg.CartIdleTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:       cat,
		Resolver:      categorysvc.NewResolver(nil, logger),
		Carts:         carts,
		Sessions:      anonymousService,
		Checkout:      checkoutService,
		Images:        images,
		CatalogSource: cfg.CatalogSource,
		Settings: httpserver.Settings{
			PublishableKey: cfg.StripePublishableKey,
			CORSOrigins:    cfg.CORSOrigins,
			SecureCookies:  strings.HasPrefix(cfg.SiteURL, "https://"),
		},
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	go sweepSessions(ctx, logger, anonymousService, carts, checkoutService)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("received shutdown signal, shutting down")
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// sweepSessions drops carts and checkout state of idle sessions.
func sweepSessions(ctx context.Context, logger *log.Logger, sessions *anonymoussvc.Service, carts *cartsvc.Sessions, checkout *checkoutsvc.Service) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := sessions.Sweep()
			if len(expired) == 0 {
				continue
			}
			carts.Drop(expired...)
			checkout.Forget(expired...)
			logger.Printf("cart sessions: swept expired=%d active=%d", len(expired), carts.Len())
		}
	}
}
