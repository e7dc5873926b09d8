package catalog

import (
	"context"
	"fmt"

	"grocery-storefront/internal/domain"
)

type ProductSource interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type CategorySource interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// LoadFrom snapshots products and categories from a store (e.g. Postgres)
// into an immutable Catalog. Later store changes are not observed.
func LoadFrom(ctx context.Context, products ProductSource, categories CategorySource) (*Catalog, error) {
	items, err := products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var names []string
	if categories != nil {
		cats, err := categories.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		for _, c := range cats {
			names = append(names, c.Name)
		}
	}
	return New(items, names)
}
