package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CATALOG_SOURCE", "FREE_DELIVERY_THRESHOLD", "DELIVERY_FEE", "CART_IDLE_TTL_MINUTES", "CORS_ORIGINS", "SITE_URL", "CURRENCY"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" || cfg.CatalogSource != CatalogEmbedded {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.FreeDeliveryThreshold.String() != "50" || cfg.DeliveryFee.String() != "4.99" {
		t.Fatalf("unexpected delivery defaults %s %s", cfg.FreeDeliveryThreshold, cfg.DeliveryFee)
	}
	if cfg.CartIdleTTL != 24*time.Hour || cfg.Currency != "gbp" {
		t.Fatalf("unexpected ttl/currency %v %s", cfg.CartIdleTTL, cfg.Currency)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("FREE_DELIVERY_THRESHOLD", "40")
	t.Setenv("DELIVERY_FEE", "not-a-number")
	t.Setenv("CART_IDLE_TTL_MINUTES", "30")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SITE_URL", "https://shop.example.com/")

	cfg := FromEnv()
	if cfg.CatalogSource != CatalogPostgres {
		t.Fatalf("expected postgres source, got %q", cfg.CatalogSource)
	}
	if cfg.FreeDeliveryThreshold.String() != "40" || cfg.DeliveryFee.String() != "4.99" {
		t.Fatalf("unexpected delivery config %s %s", cfg.FreeDeliveryThreshold, cfg.DeliveryFee)
	}
	if cfg.CartIdleTTL != 30*time.Minute || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.CartIdleTTL, cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.SiteURL != "https://shop.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.SiteURL)
	}
}

func TestFromEnvDBPool(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_MIN_CONNS", "-1")
	t.Setenv("DB_MAX_CONN_IDLE_SECONDS", "90")
	t.Setenv("DB_MAX_CONN_LIFETIME_SECONDS", "")

	cfg := FromEnv()
	if cfg.DBPool.MaxConns != 10 || cfg.DBPool.MinConns != 0 {
		t.Fatalf("unexpected pool sizes %+v", cfg.DBPool)
	}
	if cfg.DBPool.MaxConnIdleTime != 90*time.Second || cfg.DBPool.MaxConnLifetime != 30*time.Minute {
		t.Fatalf("unexpected pool durations %+v", cfg.DBPool)
	}

	cfg.StripeSecretKey, cfg.StripePublishableKey = "sk", "pk"
	cfg.CatalogSource = CatalogEmbedded
	cfg.DBPool.MinConns = 11
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DB_MIN_CONNS") {
		t.Fatalf("expected pool size error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{CatalogSource: CatalogEmbedded}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "STRIPE_SECRET_KEY") || !strings.Contains(err.Error(), "STRIPE_PUBLISHABLE_KEY") {
		t.Fatalf("expected missing key errors, got %v", err)
	}

	cfg.StripeSecretKey = "sk_test_x"
	cfg.StripePublishableKey = "pk_test_x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.CatalogSource = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected catalog source error")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STRIPE_SECRET_KEY=sk_from_file\nHTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("HTTP_ADDR", ":7000")
	os.Unsetenv("STRIPE_SECRET_KEY")

	cfg := Load(path)
	if cfg.StripeSecretKey != "sk_from_file" {
		t.Fatalf("expected key from file, got %q", cfg.StripeSecretKey)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("environment should win over .env, got %q", cfg.HTTPAddr)
	}
}
