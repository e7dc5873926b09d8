package importer

import (
	"context"
	"strings"
	"testing"

	"grocery-storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,price,category,description,inStock,weight,image
ff-101,Vine Tomatoes,1.80,Fresh Food,Sweet and juicy,true,500g,https://images.example.com/tomatoes.jpg
sw-101,Fudge,£2.5,Snacks & Sweets,,false,200g,image-9a8b7c-600x600-png
,,,,,,,
ff-102,Leeks,0.99,Fresh Food,,,,`

	repo := &stubProductRepo{}
	catRepo := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, catRepo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(repo.items) != 3 {
		t.Fatalf("expected 3 products imported, got %d (%d saved)", count, len(repo.items))
	}

	first := repo.items[0]
	if first.ID != "ff-101" || first.Price.StringFixed(2) != "1.80" || !first.InStock || first.Weight != "500g" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if first.Image.Kind != domain.ImageDirect {
		t.Fatalf("expected direct image, got %+v", first.Image)
	}

	second := repo.items[1]
	if second.Price.StringFixed(2) != "2.50" || second.InStock || second.Image.Kind != domain.ImageAsset {
		t.Fatalf("unexpected second product %+v", second)
	}

	if !repo.items[2].InStock || !repo.items[2].Image.IsZero() {
		t.Fatalf("expected defaults on third product %+v", repo.items[2])
	}

	if len(catRepo.items) != 2 {
		t.Fatalf("expected 2 category upserts, got %d", len(catRepo.items))
	}
	if catRepo.items[1].Slug != "snacks-and-sweets" {
		t.Fatalf("unexpected slug %q", catRepo.items[1].Slug)
	}
}

func TestCSVImporter_RejectsInvalidRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "id,name,price\nx,X,1.00",
		"bad price":      "id,name,price,category\nx,X,abc,Bakery",
		"negative price": "id,name,price,category\nx,X,-1,Bakery",
		"bad stock flag": "id,name,price,category,inStock\nx,X,1,Bakery,maybe",
		"missing name":   "id,name,price,category\nx,,1,Bakery",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductRepo{}
			imp := NewCSVImporter(strings.NewReader(data), repo, nil)
			if _, err := imp.Run(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
			if len(repo.items) != 0 {
				t.Fatalf("expected nothing saved, got %d", len(repo.items))
			}
		})
	}
}
