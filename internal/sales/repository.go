package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/shared"
)

// Repository persists sales in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations the sale engine runs inside one
// transaction. Locking the product rows serialises concurrent sales of the
// same product, so the stock re-check and the OUT inserts are atomic.
type TxRepository interface {
	LockProducts(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
	StockFor(ctx context.Context, productID int64) (float64, error)
	InsertSale(ctx context.Context, sale *Sale) error
	InsertItem(ctx context.Context, item *SaleItem) error
	InsertOutMovement(ctx context.Context, productID int64, qty float64, note string) error
	InsertDebt(ctx context.Context, debt *debts.Debt) error
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction. The
// callback must lock the product rows before re-reading stock, so the SUM
// over stock_movements sees every OUT row committed by a prior lock holder.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// GetSale returns a sale with its items.
func (r *Repository) GetSale(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := r.pool.QueryRow(ctx, `SELECT id, invoice_no, customer_name, customer_phone, payment_method, total, paid, created_at
FROM sales WHERE id=$1`, id).
		Scan(&s.ID, &s.InvoiceNo, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod, &s.Total, &s.Paid, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, fmt.Errorf("sales: sale %d: %w", id, shared.ErrNotFound)
		}
		return Sale{}, fmt.Errorf("sales: get sale: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, product_id, qty, price
FROM sale_items WHERE sale_id=$1 ORDER BY id`, id)
	if err != nil {
		return Sale{}, fmt.Errorf("sales: get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Qty, &item.Price); err != nil {
			return Sale{}, fmt.Errorf("sales: scan sale item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Sale{}, fmt.Errorf("sales: get sale items: %w", err)
	}
	return s, nil
}

// ListRecent returns the latest sales without items.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, invoice_no, customer_name, customer_phone, payment_method, total, paid, created_at
FROM sales ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("sales: list recent: %w", err)
	}
	defer rows.Close()

	result := []Sale{}
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.InvoiceNo, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod, &s.Total, &s.Paid, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sales: scan sale: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: list recent: %w", err)
	}
	return result, nil
}

// LockProducts selects the product rows FOR UPDATE in ascending id order so
// concurrent multi-line sales cannot deadlock.
func (r *txRepository) LockProducts(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, sku, name, sale_price, unit, min_stock, created_at
FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("sales: lock products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]catalog.Product, len(ids))
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.SalePrice, &p.Unit, &p.MinStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sales: scan locked product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: lock products: %w", err)
	}
	return products, nil
}

func (r *txRepository) StockFor(ctx context.Context, productID int64) (float64, error) {
	var qty float64
	err := r.tx.QueryRow(ctx, `SELECT COALESCE(SUM(CASE WHEN kind='IN' THEN qty ELSE -qty END), 0)
FROM stock_movements WHERE product_id=$1`, productID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("sales: stock for product: %w", err)
	}
	return qty, nil
}

func (r *txRepository) InsertSale(ctx context.Context, sale *Sale) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO sales (invoice_no, customer_name, customer_phone, payment_method, total, paid)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`,
		sale.InvoiceNo, sale.CustomerName, sale.CustomerPhone, string(sale.PaymentMethod), sale.Total, sale.Paid).
		Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("sales: invoice %s already recorded: %w", sale.InvoiceNo, shared.ErrDuplicateKey)
		}
		return fmt.Errorf("sales: insert sale: %w", err)
	}
	return nil
}

func (r *txRepository) InsertItem(ctx context.Context, item *SaleItem) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO sale_items (sale_id, product_id, qty, price)
VALUES ($1,$2,$3,$4) RETURNING id`,
		item.SaleID, item.ProductID, item.Qty, item.Price).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("sales: insert sale item: %w", err)
	}
	return nil
}

func (r *txRepository) InsertOutMovement(ctx context.Context, productID int64, qty float64, note string) error {
	if _, err := r.tx.Exec(ctx, `INSERT INTO stock_movements (product_id, kind, qty, note)
VALUES ($1,'OUT',$2,$3)`, productID, qty, note); err != nil {
		return fmt.Errorf("sales: insert out movement: %w", err)
	}
	return nil
}

func (r *txRepository) InsertDebt(ctx context.Context, debt *debts.Debt) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO debts (customer_name, customer_phone, original_amount, remaining_amount, sale_id, due_date, status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`,
		debt.CustomerName, debt.CustomerPhone, debt.OriginalAmount, debt.RemainingAmount,
		nullID(debt.SaleID), nullTime(debt.DueDate), string(debt.Status)).
		Scan(&debt.ID, &debt.CreatedAt)
	if err != nil {
		return fmt.Errorf("sales: insert debt: %w", err)
	}
	return nil
}

func nullID(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
