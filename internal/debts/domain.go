package debts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates debt lifecycle states.
type Status string

const (
	// StatusOpen means nothing has been paid yet.
	StatusOpen Status = "OPEN"
	// StatusPartial means some but not all of the debt is settled.
	StatusPartial Status = "PARTIAL"
	// StatusPaid means the remaining amount reached zero.
	StatusPaid Status = "PAID"
	// StatusOverdue marks an unsettled debt past its due date.
	StatusOverdue Status = "OVERDUE"
)

// Debt tracks a customer balance, created from a deferred sale or manually.
// Invariant: RemainingAmount <= OriginalAmount, and status is PAID exactly
// when RemainingAmount is zero.
type Debt struct {
	ID              int64           `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	SaleID          int64           `json:"sale_id,omitempty"`
	DueDate         time.Time       `json:"due_date"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Payment is an append-only settlement record against a debt.
type Payment struct {
	ID            int64           `json:"id"`
	DebtID        int64           `json:"debt_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ManualDebtInput describes a debt registered outside any sale.
type ManualDebtInput struct {
	CustomerName  string
	CustomerPhone string
	Amount        decimal.Decimal
	DueDate       time.Time
}

// Settlement is the outcome of applying a payment.
type Settlement struct {
	Remaining decimal.Decimal `json:"remaining"`
	Status    Status          `json:"status"`
}

// DeferredStatus derives the initial status of a debt created from a
// deferred sale.
func DeferredStatus(paid, remaining decimal.Decimal) Status {
	switch {
	case remaining.IsZero():
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusOpen
	}
}
