package domain

import "github.com/shopspring/decimal"

// Product is a catalog item. Price carries the upstream base price inside
// the catalog client and the marked-up price once it crosses the service
// boundary.
type Product struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	Image       string
	Category    string
	Description string
}
