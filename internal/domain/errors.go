package domain

import "errors"

var (
	ErrEmptyOrder              = errors.New("order has no lines")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrShippingAddressRequired = errors.New("shipping address required")
	ErrOrderNotFound           = errors.New("order not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrCatalogUnavailable      = errors.New("catalog unavailable")
	ErrSupplierUnavailable     = errors.New("supplier unavailable")
	ErrInvalidPrice            = errors.New("invalid price")
	ErrInvalidID               = errors.New("invalid id")
)
