package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"grocery-storefront/internal/catalog"
	"grocery-storefront/internal/domain"
	categorysvc "grocery-storefront/internal/service/category"
)

const (
	defaultFeaturedLimit = 8
	maxListLimit         = 50
	relatedLimit         = 4
)

func (h *handlers) listProducts(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	products := h.catalog.Filter(filter)
	c.JSON(http.StatusOK, gin.H{
		"category": filter.Category,
		"query":    filter.Query,
		"total":    len(products),
		"products": h.toProductViews(products),
	})
}

func (h *handlers) parseFilter(c *gin.Context) (catalog.Filter, error) {
	f := catalog.Filter{
		Category: h.resolver.Resolve(c.Query("category"), h.catalog.Categories()),
		Query:    strings.TrimSpace(c.Query("q")),
		Weight:   strings.TrimSpace(c.Query("weight")),
		Sort:     catalog.ParseSort(c.Query("sort")),
	}
	var err error
	if f.MinPrice, err = parsePrice(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(c, "maxPrice"); err != nil {
		return f, err
	}
	if raw := c.Query("inStock"); raw != "" {
		f.InStockOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return f, errInvalidParam("inStock")
		}
	}
	return f, nil
}

func parsePrice(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, errInvalidParam(key)
	}
	return &d, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return "invalid query parameter " + string(e)
}

func (h *handlers) featuredProducts(c *gin.Context) {
	limit := defaultFeaturedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, errInvalidParam("limit").Error(), nil)
			return
		}
		limit = min(n, maxListLimit)
	}
	c.JSON(http.StatusOK, gin.H{"products": h.toProductViews(h.catalog.Featured(limit))})
}

func (h *handlers) getProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := h.catalog.Get(id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	related, err := h.catalog.Related(p.ID, relatedLimit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": h.toProductView(*p),
		"related": h.toProductViews(related),
	})
}

func (h *handlers) listCategories(c *gin.Context) {
	names := h.catalog.Categories()
	counts := make(map[string]int, len(names))
	for _, p := range h.catalog.Products() {
		counts[strings.ToLower(strings.TrimSpace(p.Category))]++
	}
	type categoryView struct {
		domain.Category
		ProductCount int `json:"productCount"`
	}
	out := make([]categoryView, 0, len(names))
	for _, cat := range categorysvc.Describe(names) {
		out = append(out, categoryView{Category: cat, ProductCount: counts[strings.ToLower(cat.Name)]})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// categoryBySlug never 404s: unknown slugs fall back to the whole catalog.
func (h *handlers) categoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	resolved := h.resolver.Resolve(slug, h.catalog.Categories())
	products := h.catalog.Filter(catalog.Filter{
		Category: resolved,
		Sort:     catalog.ParseSort(c.Query("sort")),
	})
	c.JSON(http.StatusOK, gin.H{
		"slug":     slug,
		"category": resolved,
		"total":    len(products),
		"products": h.toProductViews(products),
	})
}
