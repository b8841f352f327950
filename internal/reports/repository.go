package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs read-only report projections against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SalesInRange lists sales committed inside the window, most recent first.
func (r *Repository) SalesInRange(ctx context.Context, rng Range) ([]SaleRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT invoice_no, created_at, payment_method, total, paid, customer_name, customer_phone
FROM sales
WHERE created_at BETWEEN $1 AND $2
ORDER BY created_at DESC, id DESC`, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("reports: sales in range: %w", err)
	}
	defer rows.Close()

	result := []SaleRow{}
	for rows.Next() {
		var row SaleRow
		if err := rows.Scan(&row.InvoiceNo, &row.CreatedAt, &row.PaymentMethod, &row.Total, &row.Paid, &row.CustomerName, &row.CustomerPhone); err != nil {
			return nil, fmt.Errorf("reports: scan sale row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: sales in range: %w", err)
	}
	return result, nil
}

// DebtsInRange lists debts created inside the window.
func (r *Repository) DebtsInRange(ctx context.Context, rng Range) ([]DebtRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, customer_name, customer_phone, original_amount, remaining_amount, status, created_at
FROM debts
WHERE created_at BETWEEN $1 AND $2
ORDER BY created_at DESC, id DESC`, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("reports: debts in range: %w", err)
	}
	defer rows.Close()

	result := []DebtRow{}
	for rows.Next() {
		var row DebtRow
		if err := rows.Scan(&row.ID, &row.CustomerName, &row.CustomerPhone, &row.OriginalAmount, &row.RemainingAmount, &row.Status, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("reports: scan debt row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: debts in range: %w", err)
	}
	return result, nil
}

// StockInputsInRange lists inbound movements joined with product identity.
func (r *Repository) StockInputsInRange(ctx context.Context, rng Range) ([]StockInputRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT sm.created_at, p.sku, p.name, sm.qty, sm.note
FROM stock_movements sm
JOIN products p ON p.id = sm.product_id
WHERE sm.kind = 'IN' AND sm.created_at BETWEEN $1 AND $2
ORDER BY sm.created_at DESC, sm.id DESC`, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("reports: stock inputs in range: %w", err)
	}
	defer rows.Close()

	result := []StockInputRow{}
	for rows.Next() {
		var row StockInputRow
		if err := rows.Scan(&row.CreatedAt, &row.SKU, &row.Name, &row.Qty, &row.Note); err != nil {
			return nil, fmt.Errorf("reports: scan stock input row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: stock inputs in range: %w", err)
	}
	return result, nil
}

// ExpensesInRange lists expenses recorded inside the window.
func (r *Repository) ExpensesInRange(ctx context.Context, rng Range) ([]ExpenseRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT created_at, category, amount, note
FROM expenses
WHERE created_at BETWEEN $1 AND $2
ORDER BY created_at DESC, id DESC`, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("reports: expenses in range: %w", err)
	}
	defer rows.Close()

	result := []ExpenseRow{}
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.CreatedAt, &row.Category, &row.Amount, &row.Note); err != nil {
			return nil, fmt.Errorf("reports: scan expense row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: expenses in range: %w", err)
	}
	return result, nil
}
