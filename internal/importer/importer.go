package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
	categorysvc "grocery-storefront/internal/service/category"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads grocery product CSV files and inserts/updates products.
// Every distinct category seen is upserted too, in first-seen order.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
	}
}

var requiredHeaders = []string{"id", "name", "price", "category"}

// Run parses CSV rows and upserts one product per row. It stops at the first
// invalid row and returns how many products were saved before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing required column %q", h)
		}
	}

	var (
		imported int
		line     = 1
		seen     = map[string]struct{}{}
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}

		if err := i.ensureCategory(ctx, p.Category, seen); err != nil {
			return imported, err
		}
		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) ensureCategory(ctx context.Context, name string, seen map[string]struct{}) error {
	if i.categoryRepo == nil {
		return nil
	}
	slug := categorysvc.Slugify(name)
	if _, ok := seen[slug]; ok {
		return nil
	}
	seen[slug] = struct{}{}
	if _, err := i.categoryRepo.Upsert(ctx, domain.Category{Name: name, Slug: slug}); err != nil {
		return fmt.Errorf("upsert category %q: %w", name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	category := pick(record, index, "category")
	priceStr := pick(record, index, "price")
	if id == "" || name == "" || category == "" || priceStr == "" {
		return nil, fmt.Errorf("missing required fields for id %q", id)
	}

	price, err := decimal.NewFromString(strings.TrimPrefix(priceStr, "£"))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for id %q", priceStr, id)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("negative price for id %q", id)
	}

	inStock := true
	if v := pick(record, index, "instock"); v != "" {
		inStock, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid inStock %q for id %q", v, id)
		}
	}

	return &domain.Product{
		ID:          id,
		Name:        name,
		Price:       price.Round(2),
		Category:    category,
		Description: pick(record, index, "description"),
		InStock:     inStock,
		Weight:      pick(record, index, "weight"),
		Image:       parseImage(pick(record, index, "image")),
	}, nil
}

// parseImage treats "image-..." tokens as image backend asset refs and
// anything else as a direct URL or path.
func parseImage(v string) domain.ImageRef {
	if strings.HasPrefix(v, "image-") {
		return domain.AssetImage(v)
	}
	return domain.DirectImage(v)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
