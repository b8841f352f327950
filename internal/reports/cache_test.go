package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type countingReportRepo struct {
	memoryReportRepo
	salesCalls int
}

func (r *countingReportRepo) SalesInRange(ctx context.Context, rng Range) ([]SaleRow, error) {
	r.salesCalls++
	return r.memoryReportRepo.SalesInRange(ctx, rng)
}

func TestSalesReportCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	repo := &countingReportRepo{memoryReportRepo: memoryReportRepo{sales: []SaleRow{
		{InvoiceNo: "INV-1", CreatedAt: day(5), Total: decimal.NewFromInt(100)},
	}}}
	svc := NewService(repo, staticProducts{}, asOfStock{}, NewCache(client, time.Minute))
	ctx := context.Background()

	rng := Range{From: day(1), To: day(10)}
	rows, err := svc.Sales(ctx, rng)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, repo.salesCalls)

	// Second call should hit cache.
	rows, err = svc.Sales(ctx, rng)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, repo.salesCalls)

	// A different window is a different key.
	_, err = svc.Sales(ctx, Range{From: day(2), To: day(10)})
	require.NoError(t, err)
	require.Equal(t, 2, repo.salesCalls)
}

func TestSalesReportRefreshesAfterBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	repo := &countingReportRepo{memoryReportRepo: memoryReportRepo{sales: []SaleRow{
		{InvoiceNo: "INV-1", CreatedAt: day(5), Total: decimal.NewFromInt(100)},
	}}}
	cache := NewCache(client, 5*time.Minute)
	svc := NewService(repo, staticProducts{}, asOfStock{}, cache)
	ctx := context.Background()

	rng := Range{From: day(1), To: day(10)}
	rows, err := svc.Sales(ctx, rng)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A sale committed inside the cached window must show up on the next
	// read once the writer bumps the version, TTL notwithstanding.
	repo.sales = append(repo.sales, SaleRow{InvoiceNo: "INV-2", CreatedAt: day(6), Total: decimal.NewFromInt(50)})
	require.NoError(t, cache.Bump(ctx))

	rows, err = svc.Sales(ctx, rng)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 2, repo.salesCalls)
}

func TestSalesReportWorksWithoutCache(t *testing.T) {
	repo := &countingReportRepo{memoryReportRepo: memoryReportRepo{sales: []SaleRow{
		{InvoiceNo: "INV-1", CreatedAt: day(5), Total: decimal.NewFromInt(100)},
	}}}
	svc := NewService(repo, staticProducts{}, asOfStock{}, nil)

	rng := Range{From: day(1), To: day(10)}
	for i := 0; i < 2; i++ {
		rows, err := svc.Sales(context.Background(), rng)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
	require.Equal(t, 2, repo.salesCalls)
}
