package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/shared"
)

// RepositoryPort abstracts movement persistence for the service.
type RepositoryPort interface {
	InsertInbound(ctx context.Context, input InboundInput) (Movement, error)
	CurrentStock(ctx context.Context, productID int64) (float64, error)
	StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// ProductPort resolves products referenced by movements.
type ProductPort interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// ReportCache invalidates cached report windows after a committed write.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service implements stock accounting over the append-only movement log.
type Service struct {
	repo     RepositoryPort
	products ProductPort
	reports  ReportCache
}

// NewService builds Service. reports may be nil.
func NewService(repo RepositoryPort, products ProductPort, reports ReportCache) *Service {
	return &Service{repo: repo, products: products, reports: reports}
}

// RecordInbound appends an IN movement and returns it with the new stock.
// OUT movements are never recorded here; only a committed sale produces them.
func (s *Service) RecordInbound(ctx context.Context, input InboundInput) (Movement, float64, error) {
	if input.ProductID <= 0 {
		return Movement{}, 0, fmt.Errorf("inventory: product id required: %w", shared.ErrInvalidInput)
	}
	if input.Qty <= 0 {
		return Movement{}, 0, fmt.Errorf("inventory: %w", shared.ErrInvalidQuantity)
	}
	if _, err := s.products.Get(ctx, input.ProductID); err != nil {
		return Movement{}, 0, err
	}
	movement, err := s.repo.InsertInbound(ctx, input)
	if err != nil {
		return Movement{}, 0, err
	}
	stock, err := s.repo.CurrentStock(ctx, input.ProductID)
	if err != nil {
		return Movement{}, 0, err
	}
	if s.reports != nil {
		// Best effort; a stale window expires with the cache TTL.
		_ = s.reports.Bump(ctx)
	}
	return movement, stock, nil
}

// CurrentStock recomputes the live balance for a product. The result is never
// clamped; a negative figure is reported as-is.
func (s *Service) CurrentStock(ctx context.Context, productID int64) (float64, error) {
	if productID <= 0 {
		return 0, fmt.Errorf("inventory: product id required: %w", shared.ErrInvalidInput)
	}
	return s.repo.CurrentStock(ctx, productID)
}

// StockAsOf reconstructs the balance using only movements dated on or before
// until. Movements timestamped exactly at until are included.
func (s *Service) StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error) {
	if productID <= 0 {
		return 0, fmt.Errorf("inventory: product id required: %w", shared.ErrInvalidInput)
	}
	if until.IsZero() {
		return 0, fmt.Errorf("inventory: as-of timestamp required: %w", shared.ErrInvalidInput)
	}
	return s.repo.StockAsOf(ctx, productID, until)
}

// Movements lists the movement history for a product.
func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	if filter.ProductID <= 0 {
		return nil, fmt.Errorf("inventory: product id required: %w", shared.ErrInvalidInput)
	}
	return s.repo.ListMovements(ctx, filter)
}
