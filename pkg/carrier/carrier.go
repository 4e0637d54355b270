// Package carrier provides an abstraction layer for carrier rate providers:
// canonical shipment and quote models, a registry that aggregates quotes from
// all registered providers in parallel, and a pure selection function that
// ranks quotes under weighted multi-criteria scoring.
package carrier

import (
	"context"
)

// RateProvider defines the interface that all carrier rate adapters must implement.
type RateProvider interface {
	// Name returns the carrier identifier (e.g., "freightcom", "canadapost").
	Name() string

	// FetchQuote translates the canonical request into the carrier's wire
	// protocol and returns the carrier's offers as normalized Quotes. A
	// carrier may offer several service types for one request, so more
	// than one quote can come back. Implementations must honor context
	// cancellation and fail with a *ProviderError when the carrier is
	// unreachable, replies with a non-success status, or returns an offer
	// missing a price or delivery estimate.
	FetchQuote(ctx context.Context, req *ShipmentRequest) ([]Quote, error)
}
