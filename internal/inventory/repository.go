package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/shared"
)

// Repository persists stock movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertInbound appends an IN movement. A broken product reference maps to
// ErrNotFound.
func (r *Repository) InsertInbound(ctx context.Context, input InboundInput) (Movement, error) {
	var m Movement
	err := r.pool.QueryRow(ctx, `INSERT INTO stock_movements (product_id, kind, qty, note, created_at)
VALUES ($1,'IN',$2,$3,COALESCE($4, NOW()))
RETURNING id, product_id, kind, qty, note, created_at`,
		input.ProductID, input.Qty, input.Note, nullTime(input.CreatedAt)).
		Scan(&m.ID, &m.ProductID, &m.Kind, &m.Qty, &m.Note, &m.CreatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Movement{}, fmt.Errorf("inventory: product %d: %w", input.ProductID, shared.ErrNotFound)
		}
		return Movement{}, fmt.Errorf("inventory: insert movement: %w", err)
	}
	return m, nil
}

// CurrentStock computes sum(IN) - sum(OUT) over all movements for a product.
func (r *Repository) CurrentStock(ctx context.Context, productID int64) (float64, error) {
	var qty float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(CASE WHEN kind='IN' THEN qty ELSE -qty END), 0)
FROM stock_movements WHERE product_id=$1`, productID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("inventory: current stock: %w", err)
	}
	return qty, nil
}

// StockAsOf computes the same balance restricted to movements dated on or
// before until (inclusive boundary).
func (r *Repository) StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error) {
	var qty float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(CASE WHEN kind='IN' THEN qty ELSE -qty END), 0)
FROM stock_movements WHERE product_id=$1 AND created_at <= $2`, productID, until).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("inventory: stock as of: %w", err)
	}
	return qty, nil
}

// ListMovements returns movement history for a product, most recent first.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, kind, qty, note, created_at
FROM stock_movements
WHERE product_id=$1
  AND created_at BETWEEN COALESCE($2, '-infinity') AND COALESCE($3, 'infinity')
ORDER BY created_at DESC, id DESC
LIMIT $4`, filter.ProductID, nullTime(filter.From), nullTime(filter.To), limit)
	if err != nil {
		return nil, fmt.Errorf("inventory: list movements: %w", err)
	}
	defer rows.Close()

	movements := []Movement{}
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Qty, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("inventory: scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list movements: %w", err)
	}
	return movements, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
