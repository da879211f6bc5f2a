// Package pricing is the single place the markup is applied when a catalog
// price crosses the service boundary.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/cimillas/dropship-api/internal/domain"
)

// DefaultMarkupRate is the multiplier applied to catalog base prices.
var DefaultMarkupRate = decimal.NewFromFloat(1.20)

// Engine computes customer-facing prices from catalog base prices. All
// results are rounded to 2 decimal places, half up.
type Engine struct {
	rate decimal.Decimal
}

// NewEngine returns an engine with the given markup rate. Non-positive
// rates fall back to DefaultMarkupRate.
func NewEngine(rate decimal.Decimal) *Engine {
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = DefaultMarkupRate
	}
	return &Engine{rate: rate}
}

// UnitPrice returns the marked-up price for a catalog base price.
func (e *Engine) UnitPrice(base decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidPrice
	}
	return base.Mul(e.rate).Round(2), nil
}

// LineSubtotal returns unit price times quantity, rounded independently of
// other lines.
func (e *Engine) LineSubtotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// OrderTotal sums independently rounded line subtotals over the snapshot
// unit prices. It never consults the live catalog.
func (e *Engine) OrderTotal(lines []domain.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(e.LineSubtotal(line.UnitPrice, line.Quantity))
	}
	return total.Round(2)
}
