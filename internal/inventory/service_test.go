package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/shared"
)

type memoryMovementRepo struct {
	movements []Movement
	nextID    int64
}

func (r *memoryMovementRepo) InsertInbound(ctx context.Context, input InboundInput) (Movement, error) {
	r.nextID++
	at := input.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	m := Movement{
		ID:        r.nextID,
		ProductID: input.ProductID,
		Kind:      KindIn,
		Qty:       input.Qty,
		Note:      input.Note,
		CreatedAt: at,
	}
	r.movements = append(r.movements, m)
	return m, nil
}

func (r *memoryMovementRepo) addOut(productID int64, qty float64, at time.Time) {
	r.nextID++
	r.movements = append(r.movements, Movement{
		ID:        r.nextID,
		ProductID: productID,
		Kind:      KindOut,
		Qty:       qty,
		CreatedAt: at,
	})
}

func (r *memoryMovementRepo) CurrentStock(ctx context.Context, productID int64) (float64, error) {
	return r.StockAsOf(ctx, productID, time.Now().Add(time.Hour))
}

func (r *memoryMovementRepo) StockAsOf(ctx context.Context, productID int64, until time.Time) (float64, error) {
	var sum float64
	for _, m := range r.movements {
		if m.ProductID != productID || m.CreatedAt.After(until) {
			continue
		}
		if m.Kind == KindIn {
			sum += m.Qty
		} else {
			sum -= m.Qty
		}
	}
	return sum, nil
}

func (r *memoryMovementRepo) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	result := []Movement{}
	for _, m := range r.movements {
		if m.ProductID == filter.ProductID {
			result = append(result, m)
		}
	}
	return result, nil
}

type knownProducts map[int64]catalog.Product

func (p knownProducts) Get(ctx context.Context, id int64) (catalog.Product, error) {
	product, ok := p[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("catalog: product %d: %w", id, shared.ErrNotFound)
	}
	return product, nil
}

func testProducts() knownProducts {
	return knownProducts{
		1: {ID: 1, SKU: "RICE-1", Name: "Rice 1kg", SalePrice: decimal.NewFromInt(120), Unit: "pc"},
	}
}

func TestRecordInboundValidation(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)
	ctx := context.Background()

	_, _, err := svc.RecordInbound(ctx, InboundInput{ProductID: 0, Qty: 5})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, _, err = svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 0})
	require.ErrorIs(t, err, shared.ErrInvalidQuantity)

	_, _, err = svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: -3})
	require.ErrorIs(t, err, shared.ErrInvalidQuantity)

	_, _, err = svc.RecordInbound(ctx, InboundInput{ProductID: 99, Qty: 5})
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.Empty(t, repo.movements)
}

func TestRecordInboundReturnsNewBalance(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)
	ctx := context.Background()

	_, stock, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 10})
	require.NoError(t, err)
	require.Equal(t, 10.0, stock)

	movement, stock, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 2.5})
	require.NoError(t, err)
	require.Equal(t, KindIn, movement.Kind)
	require.Equal(t, 12.5, stock)
}

type countingBumper struct {
	calls int
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.calls++
	return nil
}

func TestRecordInboundInvalidatesReportCache(t *testing.T) {
	repo := &memoryMovementRepo{}
	bumper := &countingBumper{}
	svc := NewService(repo, testProducts(), bumper)
	ctx := context.Background()

	_, _, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 10})
	require.NoError(t, err)
	require.Equal(t, 1, bumper.calls)

	_, _, err = svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 0})
	require.ErrorIs(t, err, shared.ErrInvalidQuantity)
	require.Equal(t, 1, bumper.calls)
}

func TestCurrentStockIsSignedSum(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)
	ctx := context.Background()

	_, _, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 10})
	require.NoError(t, err)
	repo.addOut(1, 4, time.Now())

	stock, err := svc.CurrentStock(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 6.0, stock)
}

func TestCurrentStockMayGoNegative(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)

	repo.addOut(1, 3, time.Now())

	stock, err := svc.CurrentStock(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, -3.0, stock)
}

func TestStockAsOfBoundaryInclusive(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)
	ctx := context.Background()

	cutoff := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, _, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 5, CreatedAt: cutoff})
	require.NoError(t, err)
	_, _, err = svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 7, CreatedAt: cutoff.Add(time.Second)})
	require.NoError(t, err)

	stock, err := svc.StockAsOf(ctx, 1, cutoff)
	require.NoError(t, err)
	require.Equal(t, 5.0, stock)
}

func TestStockAsOfBeforeAnyMovement(t *testing.T) {
	repo := &memoryMovementRepo{}
	svc := NewService(repo, testProducts(), nil)
	ctx := context.Background()

	_, _, err := svc.RecordInbound(ctx, InboundInput{ProductID: 1, Qty: 5, CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	stock, err := svc.StockAsOf(ctx, 1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Zero(t, stock)
}

func TestStockAsOfRequiresTimestamp(t *testing.T) {
	svc := NewService(&memoryMovementRepo{}, testProducts(), nil)

	_, err := svc.StockAsOf(context.Background(), 1, time.Time{})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
