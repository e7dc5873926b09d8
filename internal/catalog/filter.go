package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
)

type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortName      SortOrder = "name"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// Filter narrows the catalog. Zero values mean "no constraint"; Category is
// expected to be already resolved to a canonical name or "all".
type Filter struct {
	Category    string
	Query       string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Weight      string
	InStockOnly bool
	Sort        SortOrder
}

// ParseSort maps a query parameter onto a SortOrder, falling back to catalog order.
func ParseSort(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortName:
		return SortName
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortDefault
	}
}

// Filter returns the matching products. The catalog itself is untouched.
func (c *Catalog) Filter(f Filter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	weight := strings.ToLower(strings.TrimSpace(f.Weight))
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, domain.AllCategories) {
		category = ""
	}

	out := []domain.Product{}
	for _, p := range c.products {
		if category != "" && !strings.EqualFold(strings.TrimSpace(p.Category), category) {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if weight != "" && !strings.Contains(strings.ToLower(p.Weight), weight) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, f.Sort)
	return out
}

func matchesQuery(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}

func sortProducts(products []domain.Product, order SortOrder) {
	switch order {
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	}
}
