package canadapost

import (
	"context"
)

// APIClient defines the interface for Canada Post API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches shipping rates from Canada Post API
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// ============================================================================
// API Request/Response Types (match Canada Post REST/XML API structure)
// ============================================================================

// RatesRequest represents a Canada Post rate quote request.
type RatesRequest struct {
	CustomerNumber string
	Weight         float64
	Dimensions     Dimensions
	OriginPostal   string
	Destination    Destination
}

// Dimensions represents package dimensions.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// Destination represents shipping destination.
type Destination struct {
	Domestic      *DomesticDestination
	International *InternationalDestination
}

// DomesticDestination for Canadian addresses.
type DomesticDestination struct {
	PostalCode string
}

// InternationalDestination for non-Canadian addresses. PostalCode carries
// the US zip code when the destination is the United States.
type InternationalDestination struct {
	CountryCode string
	PostalCode  string
}

// RatesResponse represents the Canada Post rate quote response.
type RatesResponse struct {
	QuoteID string
	Rates   []Rate
}

// Rate represents a single shipping rate option.
type Rate struct {
	ServiceCode        string
	ServiceName        string
	BaseRate           float64
	FuelSurcharge      float64
	Taxes              float64
	TotalPrice         float64
	ExpectedTransit    int
	ExpectedDelivery   string
	GuaranteedDelivery bool
}

// APIError represents an error from the Canada Post API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
