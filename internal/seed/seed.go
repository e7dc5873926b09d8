package seed

import (
	"context"
	"fmt"

	"grocery-storefront/internal/catalog"
	"grocery-storefront/internal/domain"
	categorysvc "grocery-storefront/internal/service/category"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// Apply writes the embedded grocery catalog through the given repositories.
// It is idempotent: rows are upserted by id and slug.
func Apply(ctx context.Context, products ProductWriter, categories CategoryWriter) (int, error) {
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		return 0, fmt.Errorf("load embedded catalog: %w", err)
	}
	return Catalog(ctx, cat, products, categories)
}

// Catalog upserts categories first, in catalog order, then every product.
func Catalog(ctx context.Context, cat *catalog.Catalog, products ProductWriter, categories CategoryWriter) (int, error) {
	for _, name := range cat.Categories() {
		c := domain.Category{Name: name, Slug: categorysvc.Slugify(name)}
		if _, err := categories.Upsert(ctx, c); err != nil {
			return 0, fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}

	count := 0
	for _, p := range cat.Products() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return count, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		count++
	}
	return count, nil
}
