package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/shared"
)

// RepositoryPort abstracts the read-side projections.
type RepositoryPort interface {
	SalesInRange(ctx context.Context, rng Range) ([]SaleRow, error)
	DebtsInRange(ctx context.Context, rng Range) ([]DebtRow, error)
	StockInputsInRange(ctx context.Context, rng Range) ([]StockInputRow, error)
	ExpensesInRange(ctx context.Context, rng Range) ([]ExpenseRow, error)
}

// ProductPort enumerates products for stock snapshots.
type ProductPort interface {
	All(ctx context.Context) ([]catalog.Product, error)
}

// StockPort answers as-of stock queries.
type StockPort interface {
	StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error)
}

// Service exposes date-bounded reports. All operations are pure reads; each
// query independently recomputes from the ledger, so no cross-query snapshot
// is promised.
type Service struct {
	repo     RepositoryPort
	products ProductPort
	stock    StockPort
	cache    *Cache
}

// NewService builds Service. cache may be nil; reports then always hit
// the database.
func NewService(repo RepositoryPort, products ProductPort, stock StockPort, cache *Cache) *Service {
	return &Service{repo: repo, products: products, stock: stock, cache: cache}
}

func validateRange(rng Range) error {
	if rng.From.IsZero() || rng.To.IsZero() {
		return fmt.Errorf("reports: from and to required: %w", shared.ErrInvalidInput)
	}
	if rng.To.Before(rng.From) {
		return fmt.Errorf("reports: to precedes from: %w", shared.ErrInvalidInput)
	}
	return nil
}

// Sales reports sales committed inside the inclusive window.
func (s *Service) Sales(ctx context.Context, rng Range) ([]SaleRow, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	var rows []SaleRow
	err := s.cache.FetchRange(ctx, "sales", rng, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.SalesInRange(ctx, rng)
	})
	return rows, err
}

// Debts reports debts created inside the inclusive window.
func (s *Service) Debts(ctx context.Context, rng Range) ([]DebtRow, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	var rows []DebtRow
	err := s.cache.FetchRange(ctx, "debts", rng, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.DebtsInRange(ctx, rng)
	})
	return rows, err
}

// StockInputs reports inbound movements inside the inclusive window.
func (s *Service) StockInputs(ctx context.Context, rng Range) ([]StockInputRow, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	var rows []StockInputRow
	err := s.cache.FetchRange(ctx, "inputs", rng, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.StockInputsInRange(ctx, rng)
	})
	return rows, err
}

// Expenses reports expenses recorded inside the inclusive window.
func (s *Service) Expenses(ctx context.Context, rng Range) ([]ExpenseRow, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	var rows []ExpenseRow
	err := s.cache.FetchRange(ctx, "expenses", rng, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.ExpensesInRange(ctx, rng)
	})
	return rows, err
}

// StockSnapshot reconstructs every product's balance as of until. The
// per-product as-of queries are independent, so they run concurrently with a
// bounded fan-out.
func (s *Service) StockSnapshot(ctx context.Context, until time.Time) ([]SnapshotRow, error) {
	if until.IsZero() {
		return nil, fmt.Errorf("reports: until required: %w", shared.ErrInvalidInput)
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]SnapshotRow, len(products))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range products {
		g.Go(func() error {
			qty, err := s.stock.StockAsOf(ctx, p.ID, until)
			if err != nil {
				return err
			}
			result[i] = SnapshotRow{SKU: p.SKU, Name: p.Name, Unit: p.Unit, Stock: qty, MinStock: p.MinStock}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
