package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a priced snapshot of a catalog product taken at placement
// time. UnitPrice is never re-derived from the live catalog.
type OrderLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Title     string
	Image     string
}

// Address is a free-form shipping destination. Only presence is validated.
type Address struct {
	Name       string
	Street     string
	City       string
	PostalCode string
	Country    string
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// Order is a recorded customer purchase.
type Order struct {
	ID              string
	OwnerID         string
	Lines           []OrderLine
	TotalAmount     decimal.Decimal
	Status          Status
	ShippingAddress Address
	// SupplierRef is the placement id returned by the supplier; empty when
	// placement failed and the order is awaiting it.
	SupplierRef string
	CreatedAt   time.Time
}
