package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a sale is settled.
type PaymentMethod string

const (
	// PaymentCash settles immediately in cash.
	PaymentCash PaymentMethod = "cash"
	// PaymentBank settles immediately by bank transfer.
	PaymentBank PaymentMethod = "bank"
	// PaymentDeferred leaves a shortfall tracked as a customer debt.
	PaymentDeferred PaymentMethod = "deferred"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentDeferred:
		return true
	}
	return false
}

// Sale is an immutable committed transaction. There is no edit or cancel.
type Sale struct {
	ID            int64           `json:"id"`
	InvoiceNo     string          `json:"invoice_no"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []SaleItem      `json:"items,omitempty"`
}

// SaleItem is a sale line. Price is the product's sale price frozen at sale
// time, decoupled from later product price edits.
type SaleItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Qty       float64         `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

// LineInput is a requested sale line. Prices are never taken from the client.
type LineInput struct {
	ProductID int64
	Qty       float64
}

// CreateInput describes a sale request.
type CreateInput struct {
	Items         []LineInput
	PaymentMethod PaymentMethod
	Paid          decimal.Decimal
	CustomerName  string
	CustomerPhone string
	DueDate       time.Time
}
