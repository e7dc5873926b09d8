package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"grocery-storefront/internal/catalog"
	"grocery-storefront/internal/payment"
	cartsvc "grocery-storefront/internal/service/cart"
	categorysvc "grocery-storefront/internal/service/category"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

// SessionIssuer hands out anonymous cart session ids.
type SessionIssuer interface {
	Resolve(ctx context.Context, id string) (string, bool, error)
	IdleTTLSeconds() int
}

type CheckoutService interface {
	Checkout(ctx context.Context, cartKey string, store *cartsvc.Store, method checkoutsvc.DeliveryMethod) (*payment.Session, error)
	CheckoutItems(ctx context.Context, cartKey string, in checkoutsvc.ItemsInput) (*payment.Session, error)
	Complete(ctx context.Context, cartKey, sessionID string, store *cartsvc.Store) (*checkoutsvc.Confirmation, error)
	Status(cartKey string) checkoutsvc.AttemptStatus
	Options() checkoutsvc.Options
}

// Settings are the public storefront values exposed to clients.
type Settings struct {
	PublishableKey string
	CORSOrigins    []string
	SecureCookies  bool
}

// Deps groups the services the router dispatches to.
type Deps struct {
	Catalog  *catalog.Catalog
	Resolver *categorysvc.Resolver
	Carts    *cartsvc.Sessions
	Sessions SessionIssuer
	Checkout CheckoutService
	Images   *checkoutsvc.ImageResolver
	Settings Settings
	// CatalogSource names where the catalog was loaded from, for /readyz.
	CatalogSource string
}

type handlers struct {
	logger   *log.Logger
	catalog  *catalog.Catalog
	resolver *categorysvc.Resolver
	carts    *cartsvc.Sessions
	sessions SessionIssuer
	checkout CheckoutService
	images   *checkoutsvc.ImageResolver
	settings Settings
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Catalog == nil || deps.Carts == nil || deps.Sessions == nil || deps.Checkout == nil {
		return nil, errors.New("httpserver: catalog, carts, sessions and checkout are required")
	}
	if deps.Resolver == nil {
		deps.Resolver = categorysvc.NewResolver(nil, logger)
	}
	if deps.Images == nil {
		deps.Images = checkoutsvc.NewImageResolver("", "")
	}
	h := &handlers{
		logger:   logger,
		catalog:  deps.Catalog,
		resolver: deps.Resolver,
		carts:    deps.Carts,
		sessions: deps.Sessions,
		checkout: deps.Checkout,
		images:   deps.Images,
		settings: deps.Settings,
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.Settings.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.Settings.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	source := deps.CatalogSource
	if source == "" {
		source = "embedded"
		if db != nil {
			source = "postgres"
		}
	}
	router.GET("/readyz", readyHandler(db, source))

	api := router.Group("/api")
	api.GET("/config", h.configHandler)

	api.GET("/products", h.listProducts)
	api.GET("/products/featured", h.featuredProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/categories/:slug", h.categoryBySlug)

	withCart := api.Group("", h.cartSession)
	withCart.GET("/cart", h.getCart)
	withCart.POST("/cart/items", h.addCartItem)
	withCart.PUT("/cart/items/:productId", h.updateCartItem)
	withCart.DELETE("/cart/items/:productId", h.removeCartItem)
	withCart.DELETE("/cart", h.clearCart)

	withCart.POST("/checkout", h.checkoutCart)
	withCart.POST("/checkout/items", h.checkoutItems)
	withCart.GET("/checkout/status", h.checkoutStatus)
	withCart.GET("/checkout/success", h.checkoutSuccess)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found", nil)
	})

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (h *handlers) configHandler(c *gin.Context) {
	opts := h.checkout.Options()
	c.JSON(http.StatusOK, gin.H{
		"publishableKey":        h.settings.PublishableKey,
		"currency":              opts.Currency,
		"freeDeliveryThreshold": opts.FreeDeliveryThreshold,
		"deliveryFee":           opts.StandardDeliveryFee,
		"deliveryMethods":       []checkoutsvc.DeliveryMethod{checkoutsvc.Delivery, checkoutsvc.Pickup},
	})
}
