package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Range is an inclusive [From, To] report window compared on parsed
// timestamps, never on string order.
type Range struct {
	From time.Time
	To   time.Time
}

// SaleRow is one line of the sales report.
type SaleRow struct {
	InvoiceNo     string          `json:"invoice_no"`
	CreatedAt     time.Time       `json:"created_at"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
}

// DebtRow is one line of the debts report.
type DebtRow struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockInputRow is one inbound movement in the stock inputs report.
type StockInputRow struct {
	CreatedAt time.Time `json:"created_at"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Qty       float64   `json:"qty"`
	Note      string    `json:"note"`
}

// ExpenseRow is one line of the expenses report.
type ExpenseRow struct {
	CreatedAt time.Time       `json:"created_at"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
}

// SnapshotRow is a product's reconstructed stock as of a timestamp.
type SnapshotRow struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Stock    float64 `json:"stock"`
	MinStock float64 `json:"min_stock"`
}
