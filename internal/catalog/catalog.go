package catalog

import (
	"fmt"
	"strings"

	"grocery-storefront/internal/domain"
)

// Catalog is the read-only product list. It is safe for concurrent use
// because nothing mutates it after New returns.
type Catalog struct {
	products   []domain.Product
	byID       map[string]int
	categories []string
}

// New validates id uniqueness and builds the catalog. When categories is
// empty the vocabulary is derived from product categories in first-seen order.
func New(products []domain.Product, categories []string) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", p.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", id)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("catalog: product %q has negative price", id)
		}
		p.ID = id
		c.byID[id] = len(c.products)
		c.products = append(c.products, p)
	}

	seen := map[string]bool{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		c.categories = append(c.categories, name)
	}
	for _, name := range categories {
		add(name)
	}
	if len(c.categories) == 0 {
		for _, p := range c.products {
			add(p.Category)
		}
	}
	return c, nil
}

// Products returns a copy of every product in load order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns the declared category vocabulary in order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Get(id string) (*domain.Product, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := c.products[idx]
	return &p, nil
}

// Featured returns up to n in-stock products in catalog order.
func (c *Catalog) Featured(n int) []domain.Product {
	var out []domain.Product
	for _, p := range c.products {
		if len(out) >= n {
			break
		}
		if p.InStock {
			out = append(out, p)
		}
	}
	return out
}

// Related returns up to n other products sharing the category of id.
func (c *Catalog) Related(id string, n int) ([]domain.Product, error) {
	p, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, other := range c.products {
		if len(out) >= n {
			break
		}
		if other.ID != p.ID && strings.EqualFold(other.Category, p.Category) {
			out = append(out, other)
		}
	}
	return out, nil
}
