package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukapos/dukapos/internal/shared"
)

// RepositoryPort abstracts product persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateInput) (Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Search(ctx context.Context, query string, limit int) ([]Product, error)
}

// StockPort exposes the stock accounting query the listing decorates with.
type StockPort interface {
	CurrentStock(ctx context.Context, productID int64) (float64, error)
}

// Service handles product registration and lookup.
type Service struct {
	repo  RepositoryPort
	stock StockPort
}

// NewService builds Service.
func NewService(repo RepositoryPort, stock StockPort) *Service {
	return &Service{repo: repo, stock: stock}
}

// Register creates a product after validating the input.
func (s *Service) Register(ctx context.Context, input CreateInput) (Product, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKU == "" {
		return Product{}, fmt.Errorf("catalog: sku required: %w", shared.ErrInvalidInput)
	}
	if input.Name == "" {
		return Product{}, fmt.Errorf("catalog: name required: %w", shared.ErrInvalidInput)
	}
	if input.SalePrice.IsNegative() {
		return Product{}, fmt.Errorf("catalog: sale price must not be negative: %w", shared.ErrInvalidInput)
	}
	if input.MinStock < 0 {
		return Product{}, fmt.Errorf("catalog: min stock must not be negative: %w", shared.ErrInvalidInput)
	}
	if input.Unit == "" {
		input.Unit = "pc"
	}
	return s.repo.Create(ctx, input)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("catalog: invalid product id: %w", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// List searches products and decorates each row with its current stock.
func (s *Service) List(ctx context.Context, query string, limit int) ([]ProductStock, error) {
	products, err := s.repo.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	result := make([]ProductStock, 0, len(products))
	for _, p := range products {
		qty, err := s.stock.CurrentStock(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ProductStock{Product: p, Stock: qty})
	}
	return result, nil
}
