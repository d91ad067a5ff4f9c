package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

type Stock struct {
	ProductID string
	Count     int
}

// ProductView is the merged product + stock shape returned by the API
// and carried in notification payloads.
type ProductView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Count       int             `json:"count"`
}
