package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists expenses in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends an expense row.
func (r *Repository) Insert(ctx context.Context, input RecordInput) (Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx, `INSERT INTO expenses (category, amount, note, created_at)
VALUES ($1,$2,$3,COALESCE($4, NOW()))
RETURNING id, category, amount, note, created_at`,
		input.Category, input.Amount, input.Note, nullTime(input.CreatedAt)).
		Scan(&e.ID, &e.Category, &e.Amount, &e.Note, &e.CreatedAt)
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: insert: %w", err)
	}
	return e, nil
}

// ListRecent returns the latest expenses, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Expense, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, category, amount, note, created_at
FROM expenses ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("expenses: list recent: %w", err)
	}
	defer rows.Close()

	result := []Expense{}
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("expenses: scan expense: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expenses: list recent: %w", err)
	}
	return result, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
