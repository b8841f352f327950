package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos/internal/shared"
)

type memoryProductRepo struct {
	products map[int64]Product
	bySKU    map[string]int64
	nextID   int64
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{
		products: make(map[int64]Product),
		bySKU:    make(map[string]int64),
	}
}

func (r *memoryProductRepo) Create(ctx context.Context, input CreateInput) (Product, error) {
	if _, exists := r.bySKU[input.SKU]; exists {
		return Product{}, fmt.Errorf("catalog: sku %q already registered: %w", input.SKU, shared.ErrDuplicateKey)
	}
	r.nextID++
	p := Product{
		ID:        r.nextID,
		SKU:       input.SKU,
		Name:      input.Name,
		SalePrice: input.SalePrice,
		Unit:      input.Unit,
		MinStock:  input.MinStock,
		CreatedAt: time.Now(),
	}
	r.products[p.ID] = p
	r.bySKU[p.SKU] = p.ID
	return p, nil
}

func (r *memoryProductRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("catalog: product %d: %w", id, shared.ErrNotFound)
	}
	return p, nil
}

func (r *memoryProductRepo) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	result := []Product{}
	for _, p := range r.products {
		result = append(result, p)
	}
	return result, nil
}

type fixedStock map[int64]float64

func (s fixedStock) CurrentStock(ctx context.Context, productID int64) (float64, error) {
	return s[productID], nil
}

func TestRegisterValidation(t *testing.T) {
	repo := newMemoryProductRepo()
	svc := NewService(repo, fixedStock{})
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateInput{SKU: "", Name: "Rice 1kg"})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "   "})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "Rice 1kg", SalePrice: decimal.NewFromInt(-5)})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "Rice 1kg", MinStock: -1})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	require.Empty(t, repo.products)
}

func TestRegisterDefaultsUnit(t *testing.T) {
	svc := NewService(newMemoryProductRepo(), fixedStock{})

	p, err := svc.Register(context.Background(), CreateInput{
		SKU:       "  RICE-1  ",
		Name:      "Rice 1kg",
		SalePrice: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.Equal(t, "RICE-1", p.SKU)
	require.Equal(t, "pc", p.Unit)
}

func TestRegisterDuplicateSKULeavesStoreUnchanged(t *testing.T) {
	repo := newMemoryProductRepo()
	svc := NewService(repo, fixedStock{})
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "Rice 1kg", SalePrice: decimal.NewFromInt(120)})
	require.NoError(t, err)

	_, err = svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "Other rice", SalePrice: decimal.NewFromInt(99)})
	require.ErrorIs(t, err, shared.ErrDuplicateKey)

	require.Len(t, repo.products, 1)
	require.Equal(t, "Rice 1kg", repo.products[1].Name)
}

func TestListDecoratesWithStock(t *testing.T) {
	repo := newMemoryProductRepo()
	svc := NewService(repo, fixedStock{1: 7.5})
	ctx := context.Background()

	_, err := svc.Register(ctx, CreateInput{SKU: "RICE-1", Name: "Rice 1kg", SalePrice: decimal.NewFromInt(120)})
	require.NoError(t, err)

	list, err := svc.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 7.5, list[0].Stock)
}

func TestGetRejectsNonPositiveID(t *testing.T) {
	svc := NewService(newMemoryProductRepo(), fixedStock{})

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
