package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/shared"
)

type memoryReportRepo struct {
	sales    []SaleRow
	debts    []DebtRow
	inputs   []StockInputRow
	expenses []ExpenseRow
}

func inRange(at time.Time, rng Range) bool {
	return !at.Before(rng.From) && !at.After(rng.To)
}

func (r *memoryReportRepo) SalesInRange(ctx context.Context, rng Range) ([]SaleRow, error) {
	result := []SaleRow{}
	for _, row := range r.sales {
		if inRange(row.CreatedAt, rng) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *memoryReportRepo) DebtsInRange(ctx context.Context, rng Range) ([]DebtRow, error) {
	result := []DebtRow{}
	for _, row := range r.debts {
		if inRange(row.CreatedAt, rng) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *memoryReportRepo) StockInputsInRange(ctx context.Context, rng Range) ([]StockInputRow, error) {
	result := []StockInputRow{}
	for _, row := range r.inputs {
		if inRange(row.CreatedAt, rng) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *memoryReportRepo) ExpensesInRange(ctx context.Context, rng Range) ([]ExpenseRow, error) {
	result := []ExpenseRow{}
	for _, row := range r.expenses {
		if inRange(row.CreatedAt, rng) {
			result = append(result, row)
		}
	}
	return result, nil
}

type staticProducts []catalog.Product

func (p staticProducts) All(ctx context.Context) ([]catalog.Product, error) {
	return p, nil
}

type asOfStock map[int64]float64

func (s asOfStock) StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error) {
	return s[productID], nil
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func TestRangeValidation(t *testing.T) {
	svc := NewService(&memoryReportRepo{}, staticProducts{}, asOfStock{}, nil)
	ctx := context.Background()

	_, err := svc.Sales(ctx, Range{})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Sales(ctx, Range{From: day(10), To: day(5)})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Sales(ctx, Range{From: day(5), To: day(5)})
	require.NoError(t, err)
}

func TestSalesRangeIsInclusive(t *testing.T) {
	repo := &memoryReportRepo{sales: []SaleRow{
		{InvoiceNo: "INV-1", CreatedAt: day(4), Total: decimal.NewFromInt(100)},
		{InvoiceNo: "INV-2", CreatedAt: day(5), Total: decimal.NewFromInt(200)},
		{InvoiceNo: "INV-3", CreatedAt: day(7), Total: decimal.NewFromInt(300)},
		{InvoiceNo: "INV-4", CreatedAt: day(8), Total: decimal.NewFromInt(400)},
	}}
	svc := NewService(repo, staticProducts{}, asOfStock{}, nil)

	rows, err := svc.Sales(context.Background(), Range{From: day(5), To: day(7)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "INV-2", rows[0].InvoiceNo)
	require.Equal(t, "INV-3", rows[1].InvoiceNo)
}

func TestExpensesInRange(t *testing.T) {
	repo := &memoryReportRepo{expenses: []ExpenseRow{
		{Category: "rent", CreatedAt: day(1), Amount: decimal.NewFromInt(500)},
		{Category: "transport", CreatedAt: day(9), Amount: decimal.NewFromInt(50)},
	}}
	svc := NewService(repo, staticProducts{}, asOfStock{}, nil)

	rows, err := svc.Expenses(context.Background(), Range{From: day(1), To: day(2)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "rent", rows[0].Category)
}

func TestStockSnapshotCoversEveryProduct(t *testing.T) {
	products := staticProducts{
		{ID: 1, SKU: "RICE-1", Name: "Rice 1kg", Unit: "pc", MinStock: 5},
		{ID: 2, SKU: "OIL-1", Name: "Oil 1L", Unit: "pc", MinStock: 2},
		{ID: 3, SKU: "SOAP-1", Name: "Soap", Unit: "pc"},
	}
	svc := NewService(&memoryReportRepo{}, products, asOfStock{1: 10, 2: 0.5, 3: -1}, nil)

	rows, err := svc.StockSnapshot(context.Background(), day(10))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Order follows the product listing.
	require.Equal(t, "RICE-1", rows[0].SKU)
	require.Equal(t, 10.0, rows[0].Stock)
	require.Equal(t, 0.5, rows[1].Stock)
	require.Equal(t, -1.0, rows[2].Stock)
}

func TestStockSnapshotRequiresTimestamp(t *testing.T) {
	svc := NewService(&memoryReportRepo{}, staticProducts{}, asOfStock{}, nil)

	_, err := svc.StockSnapshot(context.Background(), time.Time{})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
