package product

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const selectColumns = `id, name, price::text, category, COALESCE(description, ''), in_stock, COALESCE(weight, ''), image_kind, image_value`

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products ORDER BY position ASC, id ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, price, category, description, in_stock, weight, image_kind, image_value)
VALUES ($1, $2, $3::numeric, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    in_stock = EXCLUDED.in_stock,
    weight = EXCLUDED.weight,
    image_kind = EXCLUDED.image_kind,
    image_value = EXCLUDED.image_value,
    updated_at = now()
RETURNING ` + selectColumns
	if strings.TrimSpace(product.ID) == "" {
		return nil, fmt.Errorf("product repo: upsert requires an id")
	}
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("product repo: negative price for id=%s", product.ID)
	}
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Price.StringFixed(2),
		product.Category,
		product.Description,
		product.InStock,
		product.Weight,
		imageKindText(product.Image),
		product.Image.Value,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", product.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s category=%q", res.ID, res.Category)
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		price     string
		kind      string
		imageText string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Description, &p.InStock, &p.Weight, &kind, &imageText); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product repo: parse price id=%s: %w", p.ID, err)
	}
	p.Price = d
	switch kind {
	case "direct":
		p.Image = domain.DirectImage(imageText)
	case "asset":
		p.Image = domain.AssetImage(imageText)
	}
	return &p, nil
}

func imageKindText(ref domain.ImageRef) string {
	if ref.IsZero() {
		return ""
	}
	switch ref.Kind {
	case domain.ImageDirect:
		return "direct"
	case domain.ImageAsset:
		return "asset"
	}
	return ""
}
