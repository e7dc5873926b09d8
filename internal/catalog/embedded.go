package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"grocery-storefront/internal/domain"
)

//go:embed data/products.json
var embeddedCatalog []byte

type catalogFile struct {
	Categories []string         `json:"categories"`
	Products   []domain.Product `json:"products"`
}

// LoadEmbedded builds the catalog shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedCatalog))
}

// Load reads a {"categories": [...], "products": [...]} document.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(file.Products, file.Categories)
}
