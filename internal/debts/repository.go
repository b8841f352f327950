package debts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/shared"
)

// Repository persists debts and their payments in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations a settlement runs inside one
// transaction.
type TxRepository interface {
	GetDebtForUpdate(ctx context.Context, id int64) (Debt, error)
	InsertPayment(ctx context.Context, payment *Payment) error
	UpdateDebt(ctx context.Context, id int64, remaining decimal.Decimal, status Status) error
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction. The
// FOR UPDATE read of the debt row serialises concurrent settlements; the
// waiter sees the balance the previous settlement committed.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const debtColumns = `id, customer_name, customer_phone, original_amount, remaining_amount,
sale_id, due_date, status, created_at`

func scanDebt(row pgx.Row) (Debt, error) {
	var d Debt
	var saleID *int64
	var due *time.Time
	err := row.Scan(&d.ID, &d.CustomerName, &d.CustomerPhone, &d.OriginalAmount, &d.RemainingAmount,
		&saleID, &due, &d.Status, &d.CreatedAt)
	if err != nil {
		return Debt{}, err
	}
	if saleID != nil {
		d.SaleID = *saleID
	}
	if due != nil {
		d.DueDate = *due
	}
	return d, nil
}

// CreateManual inserts a debt with no sale back-reference.
func (r *Repository) CreateManual(ctx context.Context, input ManualDebtInput) (Debt, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO debts (customer_name, customer_phone, original_amount, remaining_amount, due_date, status)
VALUES ($1,$2,$3,$3,$4,$5)
RETURNING `+debtColumns,
		input.CustomerName, input.CustomerPhone, input.Amount, nullTime(input.DueDate), string(StatusOpen))
	debt, err := scanDebt(row)
	if err != nil {
		return Debt{}, fmt.Errorf("debts: create manual debt: %w", err)
	}
	return debt, nil
}

// Get returns a debt by id.
func (r *Repository) Get(ctx context.Context, id int64) (Debt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id=$1`, id)
	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, fmt.Errorf("debts: debt %d: %w", id, shared.ErrNotFound)
		}
		return Debt{}, fmt.Errorf("debts: get debt: %w", err)
	}
	return debt, nil
}

// Search lists debts by customer name or phone substring, most recent first.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Debt, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT `+debtColumns+`
FROM debts
WHERE $1 = '' OR customer_name ILIKE '%'||$1||'%' OR customer_phone ILIKE '%'||$1||'%'
ORDER BY created_at DESC, id DESC
LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("debts: search debts: %w", err)
	}
	defer rows.Close()

	result := []Debt{}
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("debts: scan debt: %w", err)
		}
		result = append(result, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("debts: search debts: %w", err)
	}
	return result, nil
}

// ListPayments returns the append-only payment log for a debt.
func (r *Repository) ListPayments(ctx context.Context, debtID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, debt_id, amount, payment_method, created_at
FROM debt_payments WHERE debt_id=$1 ORDER BY created_at DESC, id DESC`, debtID)
	if err != nil {
		return nil, fmt.Errorf("debts: list payments: %w", err)
	}
	defer rows.Close()

	result := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount, &p.PaymentMethod, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("debts: scan payment: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("debts: list payments: %w", err)
	}
	return result, nil
}

// ListUnsettled returns every debt with a positive remaining balance.
func (r *Repository) ListUnsettled(ctx context.Context) ([]Debt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+debtColumns+`
FROM debts WHERE remaining_amount > 0 ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("debts: list unsettled: %w", err)
	}
	defer rows.Close()

	result := []Debt{}
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("debts: scan debt: %w", err)
		}
		result = append(result, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("debts: list unsettled: %w", err)
	}
	return result, nil
}

// MarkOverdue flips unsettled debts past their due date to OVERDUE and
// returns how many rows changed.
func (r *Repository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE debts SET status=$1
WHERE status IN ($2,$3) AND due_date IS NOT NULL AND due_date < $4 AND remaining_amount > 0`,
		string(StatusOverdue), string(StatusOpen), string(StatusPartial), asOf)
	if err != nil {
		return 0, fmt.Errorf("debts: mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *txRepository) GetDebtForUpdate(ctx context.Context, id int64) (Debt, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id=$1 FOR UPDATE`, id)
	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, fmt.Errorf("debts: debt %d: %w", id, shared.ErrNotFound)
		}
		return Debt{}, fmt.Errorf("debts: get debt for update: %w", err)
	}
	return debt, nil
}

func (r *txRepository) InsertPayment(ctx context.Context, payment *Payment) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO debt_payments (debt_id, amount, payment_method)
VALUES ($1,$2,$3) RETURNING id, created_at`,
		payment.DebtID, payment.Amount, payment.PaymentMethod).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("debts: insert payment: %w", err)
	}
	return nil
}

func (r *txRepository) UpdateDebt(ctx context.Context, id int64, remaining decimal.Decimal, status Status) error {
	if _, err := r.tx.Exec(ctx, `UPDATE debts SET remaining_amount=$1, status=$2 WHERE id=$3`,
		remaining, string(status), id); err != nil {
		return fmt.Errorf("debts: update debt: %w", err)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
