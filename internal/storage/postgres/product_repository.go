package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/backoffice/internal/core"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a product. A taken SKU yields core.ErrDuplicateSKU.
func (r *ProductRepository) Create(ctx context.Context, s core.ProductSnapshot) error {
	const stmt = `
INSERT INTO products (id, sku, name, category, model, color, brand, cost_cny, on_hand, created_at, updated_at, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		s.ID, s.SKU, s.Name, s.Category, s.Model, s.Color, s.Brand,
		s.CostCNY, s.OnHand, s.CreatedAt, s.UpdatedAt, s.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateSKU
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

const productColumns = `
	id, sku, name, category, model, color, brand, cost_cny, on_hand, created_at, updated_at, version`

// Get loads a product by SKU. Missing products yield core.ErrProductNotFound.
func (r *ProductRepository) Get(ctx context.Context, sku string) (core.ProductSnapshot, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE sku = $1`

	s, err := scanProduct(conn(ctx, r.pool).QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ProductSnapshot{}, core.ErrProductNotFound
		}
		return core.ProductSnapshot{}, fmt.Errorf("get product: %w", err)
	}
	return s, nil
}

// ListByPrefix returns products whose SKU starts with prefix, i.e. the
// variants sharing category, model, color and brand.
func (r *ProductRepository) ListByPrefix(ctx context.Context, prefix string, limit int) ([]core.ProductSnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT` + productColumns + `
FROM products
WHERE sku LIKE $1 || '%'
ORDER BY sku
LIMIT $2`

	rows, err := conn(ctx, r.pool).Query(ctx, query, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]core.ProductSnapshot, 0)
	for rows.Next() {
		s, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// UpdateStock writes OnHand under the same version check as
// OrderRepository.Update.
func (r *ProductRepository) UpdateStock(ctx context.Context, s core.ProductSnapshot) (core.ProductSnapshot, error) {
	const stmt = `
UPDATE products SET on_hand = $2, updated_at = $3, version = version + 1
WHERE id = $1 AND version = $4`

	q := conn(ctx, r.pool)
	tag, err := q.Exec(ctx, stmt, s.ID, s.OnHand, s.UpdatedAt, s.Version)
	if err != nil {
		return core.ProductSnapshot{}, fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return core.ProductSnapshot{}, fmt.Errorf("check product: %w", err)
		}
		if !exists {
			return core.ProductSnapshot{}, core.ErrProductNotFound
		}
		return core.ProductSnapshot{}, core.ErrConcurrentUpdate
	}
	s.Version++
	return s, nil
}

func scanProduct(row pgx.Row) (core.ProductSnapshot, error) {
	var s core.ProductSnapshot
	err := row.Scan(
		&s.ID, &s.SKU, &s.Name, &s.Category, &s.Model, &s.Color, &s.Brand,
		&s.CostCNY, &s.OnHand, &s.CreatedAt, &s.UpdatedAt, &s.Version,
	)
	return s, err
}
