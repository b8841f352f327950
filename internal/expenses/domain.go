// Package expenses records shop running costs outside the sales ledger.
package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an append-only cost record.
type Expense struct {
	ID        int64           `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordInput describes an expense entry. CreatedAt is optional;
// a zero value defers to the database clock.
type RecordInput struct {
	Category  string
	Amount    decimal.Decimal
	Note      string
	CreatedAt time.Time
}
