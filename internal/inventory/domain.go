package inventory

import (
	"time"
)

// MovementKind enumerates supported stock movements.
type MovementKind string

const (
	// KindIn represents inventory entering a product's available quantity.
	KindIn MovementKind = "IN"
	// KindOut represents inventory leaving, written only by the sale engine.
	KindOut MovementKind = "OUT"
)

// Movement is an append-only ledger entry. Rows are never updated or deleted;
// every stock figure is recomputed from this log.
type Movement struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"product_id"`
	Kind      MovementKind `json:"kind"`
	Qty       float64      `json:"qty"`
	Note      string       `json:"note"`
	CreatedAt time.Time    `json:"created_at"`
}

// InboundInput describes a stock-in request.
type InboundInput struct {
	ProductID int64
	Qty       float64
	Note      string
	CreatedAt time.Time
}

// MovementFilter filters movement history listings.
type MovementFilter struct {
	ProductID int64
	From      time.Time
	To        time.Time
	Limit     int
}
