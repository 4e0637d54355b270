package carrier

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServiceType represents the shipping service type.
type ServiceType string

const (
	ServiceStandard  ServiceType = "standard"
	ServiceExpress   ServiceType = "express"
	ServicePriority  ServiceType = "priority"
	ServiceOvernight ServiceType = "overnight"
	ServiceEconomy   ServiceType = "economy"
)

// Address represents a shipping origin or destination.
type Address struct {
	Name         string
	Line1        string
	Line2        string
	City         string
	ProvinceCode string // e.g., "ON", "QC", "BC"
	PostalCode   string
	CountryCode  string // ISO 3166-1 alpha-2, e.g., "CA", "US"
	Phone        string
	Latitude     float64
	Longitude    float64
}

// ManifestItem is a single physical item in a shipment.
type ManifestItem struct {
	SKU         string
	Description string
	Quantity    int
	WeightKg    float64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	Fragile     bool
	ColdChain   bool
}

// ShipmentRequest is the canonical input to quoting. It is built once per
// booking or checkout attempt and never mutated afterwards.
type ShipmentRequest struct {
	// OrderRef correlates the request with the booking attempt. Pre-order
	// checkout flows pass a synthetic reference.
	OrderRef    string
	Origin      Address
	Destination Address
	Items       []ManifestItem
}

// Validate checks that the request is well-formed enough to send to carriers.
func (r *ShipmentRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil shipment request", ErrInvalidInput)
	}
	if r.OrderRef == "" {
		return fmt.Errorf("%w: missing order reference", ErrInvalidInput)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: shipment has no items", ErrInvalidInput)
	}
	for i, item := range r.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", ErrInvalidInput, i)
		}
		if item.WeightKg <= 0 {
			return fmt.Errorf("%w: item %d has non-positive weight", ErrInvalidInput, i)
		}
	}
	return nil
}

// TotalWeightKg returns the combined weight of all items.
func (r *ShipmentRequest) TotalWeightKg() float64 {
	var total float64
	for _, item := range r.Items {
		total += item.WeightKg * float64(item.Quantity)
	}
	return total
}

// Money represents a monetary amount.
type Money struct {
	Amount   float64
	Currency string
}

// Quote is a carrier's priced, timed offer for one shipment request.
// Quotes are immutable once returned by a provider.
type Quote struct {
	// QuoteID uniquely identifies this quote within the aggregation pass.
	// A single carrier may return several quotes (one per service type),
	// so downstream selection audit is keyed by QuoteID, never by Carrier.
	QuoteID     string
	Carrier     string // carrier identifier, e.g. "freightcom"
	CarrierName string // display name, e.g. "Freightcom"
	ServiceCode string
	ServiceName string
	ServiceType ServiceType
	Price       Money
	// TransitDays is the estimated delivery day-count.
	TransitDays       int
	EstimatedDelivery *time.Time
	// Breakdown maps cost-component names to amounts (base, fuel_surcharge, taxes).
	Breakdown map[string]Money
	// Raw is the provider-specific payload, kept opaque for audit only.
	Raw json.RawMessage
}
