package category

import (
	"io"
	"log"
	"net/url"
	"strings"
	"unicode"

	"grocery-storefront/internal/domain"
)

// DefaultAliases maps common URL slugs onto canonical category names.
var DefaultAliases = map[string]string{
	"all-products":  domain.AllCategories,
	"products":      domain.AllCategories,
	"shop":          domain.AllCategories,
	"wine":          "Fruit wine",
	"wines":         "Fruit wine",
	"fruit-wines":   "Fruit wine",
	"beauty":        "Beauty & Personal Care",
	"personal-care": "Beauty & Personal Care",
	"toiletries":    "Beauty & Personal Care",
	"fresh":         "Fresh Food",
	"produce":       "Fresh Food",
	"dairy":         "Fresh Food",
	"frozen":        "Frozen Food",
	"bread":         "Bakery",
	"beverages":     "Drinks",
	"drink":         "Drinks",
	"snacks":        "Snacks & Sweets",
	"sweets":        "Snacks & Sweets",
	"confectionery": "Snacks & Sweets",
	"cupboard":      "Pantry",
	"food-cupboard": "Pantry",
	"cleaning":      "Household",
	"home":          "Household",
}

// Resolver maps arbitrary slugs onto one of a set of known category names.
type Resolver struct {
	aliases map[string]string
	logger  *log.Logger
}

// NewResolver copies aliases (keys are lower-cased). A nil map uses DefaultAliases.
func NewResolver(aliases map[string]string, logger *log.Logger) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	own := make(map[string]string, len(aliases))
	for k, v := range aliases {
		own[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Resolver{aliases: own, logger: logger}
}

// Resolve returns a canonical category for rawSlug, or "all". Tiers are tried
// in order: exact (name or slug form, case-insensitive), alias, then partial
// containment in either direction. The partial tier is first-match-wins in
// the order of known.
func (r *Resolver) Resolve(rawSlug string, known []string) string {
	raw := strings.TrimSpace(rawSlug)
	if raw == "" {
		return domain.AllCategories
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return domain.AllCategories
	}
	lowered := strings.ToLower(decoded)
	spaced := strings.ReplaceAll(lowered, "-", " ")

	for _, name := range known {
		if strings.EqualFold(name, decoded) || strings.EqualFold(name, spaced) || Slugify(name) == lowered {
			return name
		}
	}

	if target, ok := r.aliases[lowered]; ok {
		return target
	}

	for _, name := range known {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if strings.Contains(n, lowered) || strings.Contains(lowered, n) ||
			strings.Contains(n, spaced) || strings.Contains(spaced, n) {
			return name
		}
	}

	r.logger.Printf("category resolver: unresolved slug=%q fallback=%s", rawSlug, domain.AllCategories)
	return domain.AllCategories
}

// Describe pairs each category name with its URL slug.
func Describe(names []string) []domain.Category {
	out := make([]domain.Category, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Category{Name: n, Slug: Slugify(n)})
	}
	return out
}

// Slugify lower-cases name, spells out "&" and joins words with hyphens.
func Slugify(name string) string {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "&", " and ")
	var b strings.Builder
	dash := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
