package purolator

import (
	"context"
)

// APIClient defines the interface for Purolator API operations.
// This abstraction allows for mock implementations during testing
// and real SOAP implementations in production.
type APIClient interface {
	// GetRates fetches shipping rates from Purolator EstimatingService
	GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// ============================================================================
// API Request/Response Types (match Purolator SOAP API structure)
// ============================================================================

// RatesRequest represents a Purolator rate quote request.
type RatesRequest struct {
	BillingAccountNumber string
	SenderPostalCode     string
	ReceiverAddress      Address
	PackageInformation   PackageInformation
}

// PackageInformation contains package details for rating.
type PackageInformation struct {
	TotalWeight Weight
	TotalPieces int
}

// Weight represents package weight.
type Weight struct {
	Value float64
	Unit  string // "lb" or "kg"
}

// Address represents a Purolator rating address.
type Address struct {
	City       string
	Province   string
	PostalCode string
	Country    string
}

// RatesResponse represents the Purolator rate quote response.
type RatesResponse struct {
	QuoteID       string
	ShipmentRates []ShipmentRate
}

// ShipmentRate represents a single rate option.
type ShipmentRate struct {
	ServiceCode          string
	ServiceName          string
	BasePrice            float64
	FuelSurcharge        float64
	Taxes                float64
	TotalPrice           float64
	ExpectedDeliveryDate string
	EstimatedTransitDays int
	GuaranteedDelivery   bool
}

// APIError represents an error from the Purolator API.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}
