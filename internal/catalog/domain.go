package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item tracked by the ledger. SKU is unique and
// immutable; SalePrice is the current list price and later edits never touch
// prices frozen on past sale items.
type Product struct {
	ID        int64           `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Unit      string          `json:"unit"`
	MinStock  float64         `json:"min_stock"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductStock pairs a product with its computed stock level.
type ProductStock struct {
	Product
	Stock float64 `json:"stock"`
}

// CreateInput describes a product registration request.
type CreateInput struct {
	SKU       string
	Name      string
	SalePrice decimal.Decimal
	Unit      string
	MinStock  float64
}
