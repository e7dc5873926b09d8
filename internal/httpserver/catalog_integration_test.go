package httpserver

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"grocery-storefront/internal/catalog"
	"grocery-storefront/internal/migrate"
	categoryrepo "grocery-storefront/internal/repository/category"
	productrepo "grocery-storefront/internal/repository/product"
	"grocery-storefront/internal/seed"
	"grocery-storefront/internal/service/anonymous"
	cartsvc "grocery-storefront/internal/service/cart"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

func TestCatalogFromPostgres_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE products, categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	products := productrepo.NewPostgres(pool, logDiscard())
	categories := categoryrepo.NewPostgres(pool)
	seeded, err := seed.Catalog(ctx, testCatalog(t), products, categories)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	cat, err := catalog.LoadFrom(ctx, products, categories)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if cat.Len() != seeded {
		t.Fatalf("expected %d products, got %d", seeded, cat.Len())
	}

	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), pool, Deps{
		Catalog:  cat,
		Carts:    cartsvc.NewSessions(),
		Sessions: anonymous.New(time.Hour),
		Checkout: checkoutsvc.New(checkoutsvc.NewBuilder(checkoutsvc.DefaultOptions(), nil), &stubProvider{}, cat, logDiscard()),
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env := &testEnv{router: router}

	var ready struct {
		Status  string `json:"status"`
		Catalog string `json:"catalog"`
		Pool    struct {
			MaxConns int32 `json:"maxConns"`
		} `json:"pool"`
	}
	rec := env.do(t, http.MethodGet, "/readyz", "")
	decode(t, rec, &ready)
	if rec.Code != http.StatusOK || ready.Catalog != "postgres" || ready.Pool.MaxConns == 0 {
		t.Fatalf("unexpected readiness %d %+v", rec.Code, ready)
	}

	var body productsBody
	decode(t, env.do(t, http.MethodGet, "/api/products?category=wine", ""), &body)
	if body.Category != "Fruit wine" || body.Total != 1 || body.Products[0].ID != "B" {
		t.Fatalf("unexpected products %+v", body)
	}
}

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
