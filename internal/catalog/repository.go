package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/shared"
)

// Repository persists products in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a product. A sku collision maps to ErrDuplicateKey.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `INSERT INTO products (sku, name, sale_price, unit, min_stock)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, sku, name, sale_price, unit, min_stock, created_at`,
		input.SKU, input.Name, input.SalePrice, input.Unit, input.MinStock).
		Scan(&p.ID, &p.SKU, &p.Name, &p.SalePrice, &p.Unit, &p.MinStock, &p.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Product{}, fmt.Errorf("catalog: sku %q already registered: %w", input.SKU, shared.ErrDuplicateKey)
		}
		return Product{}, fmt.Errorf("catalog: create product: %w", err)
	}
	return p, nil
}

// Get returns a product by id.
func (r *Repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT id, sku, name, sale_price, unit, min_stock, created_at
FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.SalePrice, &p.Unit, &p.MinStock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("catalog: product %d: %w", id, shared.ErrNotFound)
		}
		return Product{}, fmt.Errorf("catalog: get product: %w", err)
	}
	return p, nil
}

// Search lists products by sku or name substring, most recent first.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, sku, name, sale_price, unit, min_stock, created_at
FROM products
WHERE $1 = '' OR sku ILIKE '%'||$1||'%' OR name ILIKE '%'||$1||'%'
ORDER BY created_at DESC, id DESC
LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.SalePrice, &p.Unit, &p.MinStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: search products: %w", err)
	}
	return products, nil
}

// All returns every product ordered by recency. Used by stock snapshots.
func (r *Repository) All(ctx context.Context) ([]Product, error) {
	return r.Search(ctx, "", 10000)
}
