package freightcom

import (
	"context"
)

// APIClient defines the interface for Freightcom rating operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches shipping rates from the Freightcom API.
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// ============================================================================
// API Request/Response Types (match Freightcom REST API v2 structure)
// ============================================================================

// RatesRequest represents a Freightcom rate quote request.
// POST /rate endpoint
type RatesRequest struct {
	Services         []int           `json:"services,omitempty"`          // Service IDs to query (all if omitted)
	ExcludedServices []int           `json:"excluded_services,omitempty"` // Services to exclude
	Details          ShippingDetails `json:"details"`
}

// ShippingDetails contains shipping information for rate requests.
type ShippingDetails struct {
	Origin      Location      `json:"origin"`
	Destination Location      `json:"destination"`
	Packaging   PackagingInfo `json:"packaging"`
}

// Location represents origin or destination.
type Location struct {
	Name       string `json:"name,omitempty"`
	Address1   string `json:"address_1"`
	Address2   string `json:"address_2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO 3166-1 alpha-2 code
	Phone      string `json:"phone,omitempty"`
}

// PackagingInfo contains package details.
type PackagingInfo struct {
	Type     string    `json:"type"` // "package", "envelope", "pallet"
	Packages []Package `json:"packages"`
}

// Package represents a single package.
type Package struct {
	Length              float64 `json:"length"` // cm
	Width               float64 `json:"width"`  // cm
	Height              float64 `json:"height"` // cm
	Weight              float64 `json:"weight"` // kg
	Description         string  `json:"description,omitempty"`
	Quantity            int     `json:"quantity,omitempty"`
	SpecialHandling     bool    `json:"special_handling,omitempty"`
	RefrigerationNeeded bool    `json:"refrigeration_needed,omitempty"`
}

// RateRequestResponse is the initial response from POST /rate (async).
type RateRequestResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"` // "pending", "complete", "error"
}

// RatesResponse represents the Freightcom rate quote response.
// GET /rate/{request_id} endpoint
type RatesResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"` // "pending", "complete", "error"
	Rates     []Rate `json:"rates,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Rate represents a single shipping rate option.
type Rate struct {
	ID                string  `json:"id"`
	ServiceID         int     `json:"service_id"`
	CarrierCode       string  `json:"carrier_code"`
	CarrierName       string  `json:"carrier_name"`
	ServiceCode       string  `json:"service_code"`
	ServiceName       string  `json:"service_name"`
	BaseRate          float64 `json:"base_rate"`
	FuelSurcharge     float64 `json:"fuel_surcharge"`
	TotalTax          float64 `json:"total_tax"`
	TotalPrice        float64 `json:"total_price"`
	Currency          string  `json:"currency"`
	TransitDays       int     `json:"transit_days"`
	EstimatedDelivery string  `json:"estimated_delivery,omitempty"`
	Guaranteed        bool    `json:"guaranteed"`
	ExpiresAt         string  `json:"expires_at"`
}

// APIError represents an error from the Freightcom API.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"` // Field-level errors
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
