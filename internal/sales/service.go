package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/shared"
)

// RepositoryPort abstracts sale persistence for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetSale(ctx context.Context, id int64) (Sale, error)
	ListRecent(ctx context.Context, limit int) ([]Sale, error)
}

// ProductPort resolves products during pre-validation.
type ProductPort interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// StockPort answers availability checks during pre-validation.
type StockPort interface {
	CurrentStock(ctx context.Context, productID int64) (float64, error)
}

// ReportCache invalidates cached report windows after a committed write.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service implements the sale engine: validate, price, and commit a sale
// with its items, OUT movements and optional debt in one transaction.
type Service struct {
	repo     RepositoryPort
	products ProductPort
	stock    StockPort
	reports  ReportCache
}

// NewService builds Service. reports may be nil.
func NewService(repo RepositoryPort, products ProductPort, stock StockPort, reports ReportCache) *Service {
	return &Service{repo: repo, products: products, stock: stock, reports: reports}
}

// CreateSale validates the request fully before touching the store, then
// commits atomically. The stock check is repeated inside the transaction
// under product row locks, so two concurrent sales of the last unit cannot
// both succeed.
func (s *Service) CreateSale(ctx context.Context, input CreateInput) (Sale, error) {
	if len(input.Items) == 0 {
		return Sale{}, fmt.Errorf("sales: items required: %w", shared.ErrInvalidInput)
	}
	if !input.PaymentMethod.Valid() {
		return Sale{}, fmt.Errorf("sales: unknown payment method %q: %w", input.PaymentMethod, shared.ErrInvalidInput)
	}
	if input.Paid.IsNegative() {
		return Sale{}, fmt.Errorf("sales: paid: %w", shared.ErrInvalidAmount)
	}

	qtyPerProduct := make(map[int64]float64)
	for _, line := range input.Items {
		if line.Qty <= 0 {
			return Sale{}, fmt.Errorf("sales: product %d: %w", line.ProductID, shared.ErrInvalidQuantity)
		}
		qtyPerProduct[line.ProductID] += line.Qty
	}
	productIDs := make([]int64, 0, len(qtyPerProduct))
	for id := range qtyPerProduct {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	// Fast pre-validation; prices still come from the locked rows later.
	for _, id := range productIDs {
		product, err := s.products.Get(ctx, id)
		if err != nil {
			return Sale{}, err
		}
		available, err := s.stock.CurrentStock(ctx, id)
		if err != nil {
			return Sale{}, err
		}
		if qtyPerProduct[id] > available {
			return Sale{}, insufficientStock(product.Name, available)
		}
	}

	if input.PaymentMethod == PaymentDeferred {
		input.CustomerName = strings.TrimSpace(input.CustomerName)
		if input.CustomerName == "" {
			return Sale{}, fmt.Errorf("sales: %w", shared.ErrMissingCustomer)
		}
		phone, err := shared.ValidatePhone(input.CustomerPhone)
		if err != nil {
			return Sale{}, fmt.Errorf("sales: customer phone %q: %w", input.CustomerPhone, err)
		}
		input.CustomerPhone = phone
	}

	sale := Sale{
		InvoiceNo:     fmt.Sprintf("INV-%d", time.Now().UnixNano()),
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		PaymentMethod: input.PaymentMethod,
		Paid:          input.Paid,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		products, err := tx.LockProducts(ctx, productIDs)
		if err != nil {
			return err
		}

		// Re-check availability under the locks; a concurrent commit may
		// have deducted stock since pre-validation.
		for _, id := range productIDs {
			product, ok := products[id]
			if !ok {
				return fmt.Errorf("sales: product %d: %w", id, shared.ErrNotFound)
			}
			available, err := tx.StockFor(ctx, id)
			if err != nil {
				return err
			}
			if qtyPerProduct[id] > available {
				return insufficientStock(product.Name, available)
			}
		}

		total := decimal.Zero
		items := make([]SaleItem, 0, len(input.Items))
		for _, line := range input.Items {
			price := products[line.ProductID].SalePrice
			total = total.Add(price.Mul(decimal.NewFromFloat(line.Qty)))
			items = append(items, SaleItem{ProductID: line.ProductID, Qty: line.Qty, Price: price})
		}
		sale.Total = total

		if err := tx.InsertSale(ctx, &sale); err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = sale.ID
			if err := tx.InsertItem(ctx, &items[i]); err != nil {
				return err
			}
			note := fmt.Sprintf("Sale#%s", sale.InvoiceNo)
			if err := tx.InsertOutMovement(ctx, items[i].ProductID, items[i].Qty, note); err != nil {
				return err
			}
		}
		sale.Items = items

		// A zero-total deferred sale leaves nothing owed, so no debt row.
		if input.PaymentMethod == PaymentDeferred && total.IsPositive() {
			remaining := total.Sub(input.Paid)
			if remaining.IsNegative() {
				remaining = decimal.Zero
			}
			debt := debts.Debt{
				CustomerName:    input.CustomerName,
				CustomerPhone:   input.CustomerPhone,
				OriginalAmount:  total,
				RemainingAmount: remaining,
				SaleID:          sale.ID,
				DueDate:         input.DueDate,
				Status:          debts.DeferredStatus(input.Paid, remaining),
			}
			if err := tx.InsertDebt(ctx, &debt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	s.bumpReports(ctx)
	return sale, nil
}

// bumpReports drops cached report windows after a commit. Best effort: a
// failed bump only extends staleness until the TTL expires.
func (s *Service) bumpReports(ctx context.Context) {
	if s.reports != nil {
		_ = s.reports.Bump(ctx)
	}
}

// GetSale returns a sale with its items.
func (s *Service) GetSale(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, fmt.Errorf("sales: invalid sale id: %w", shared.ErrInvalidInput)
	}
	return s.repo.GetSale(ctx, id)
}

// ListRecent returns the latest sales.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Sale, error) {
	return s.repo.ListRecent(ctx, limit)
}

func insufficientStock(productName string, available float64) error {
	return fmt.Errorf("sales: not enough stock for %s (available %g): %w", productName, available, shared.ErrInsufficientStock)
}
