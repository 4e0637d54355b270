package booking

import "errors"

var (
	// ErrNoShippingOptions indicates checkout aggregation produced nothing to
	// display.
	ErrNoShippingOptions = errors.New("no shipping options")

	// ErrWarehouseNotFound indicates the order references an unknown warehouse.
	ErrWarehouseNotFound = errors.New("warehouse not found")

	// ErrOrderNotFound indicates a lookup for a nonexistent order.
	ErrOrderNotFound = errors.New("order not found")
)
