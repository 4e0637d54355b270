package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/orders/pkg/carrier"
)

// OrderStatus tracks the order lifecycle. An order leaves pending only when a
// selected quote and its carrier assignment are committed together.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusCarrierAssigned OrderStatus = "carrier_assigned"
)

// ServiceLevel is the caller-chosen shipping tier. It decides which selection
// weight tuple applies; the booking core itself holds no weighting policy.
type ServiceLevel string

const (
	ServiceLevelStandard ServiceLevel = "standard"
	ServiceLevelExpress  ServiceLevel = "express"
)

// Order is the order aggregate. carrier fields stay unset until a quote is
// selected and committed in the same transaction as the assignment record.
type Order struct {
	ID                uuid.UUID
	CustomerName      string
	WarehouseID       uuid.UUID
	Destination       carrier.Address
	ServiceLevel      ServiceLevel
	Status            OrderStatus
	CarrierID         string
	ShippingCost      *carrier.Money
	TransitDays       int
	EstimatedDelivery *time.Time
	Items             []OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AssignCarrier records the selected quote on the order and moves it to
// carrier_assigned.
func (o *Order) AssignCarrier(q *carrier.Quote, at time.Time) {
	cost := q.Price
	o.CarrierID = q.Carrier
	o.ShippingCost = &cost
	o.TransitDays = q.TransitDays
	o.EstimatedDelivery = q.EstimatedDelivery
	o.Status = StatusCarrierAssigned
	o.UpdatedAt = at
}

// OrderItem is a fixed line item; items never change after order creation.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
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

// SelectionRecord is the audit marker for one selection decision, keyed by the
// unique quote ID so a carrier offering several service types stays
// unambiguous.
type SelectionRecord struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	QuoteID     string
	Carrier     string
	Price       carrier.Money
	TransitDays int
	Criteria    carrier.SelectionCriteria
	SelectedAt  time.Time
}

// AssignmentStatus progresses independently of the booking core; downstream
// fulfillment moves it forward, this package only ever writes pending.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentPickedUp  AssignmentStatus = "picked_up"
	AssignmentInTransit AssignmentStatus = "in_transit"
	AssignmentDelivered AssignmentStatus = "delivered"
)

// CarrierAssignment durably links an order to its chosen carrier along with
// the full decision context for audit and dispute resolution. Written exactly
// once per successful booking, never mutated here.
type CarrierAssignment struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	Carrier         string
	QuoteID         string
	Status          AssignmentStatus
	DecisionContext json.RawMessage
	CreatedAt       time.Time
}

// Warehouse is the resolved shipping origin.
type Warehouse struct {
	ID      uuid.UUID
	Name    string
	Address carrier.Address
}

// OrderInput is the booking request surface exposed to controllers.
type OrderInput struct {
	CustomerName string
	WarehouseID  uuid.UUID
	Destination  carrier.Address
	ServiceLevel ServiceLevel
	Items        []ItemInput
}

// Validate rejects structurally unusable inputs before any transaction opens.
func (in *OrderInput) Validate() error {
	if in.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", carrier.ErrInvalidInput)
	}
	if in.WarehouseID == uuid.Nil {
		return fmt.Errorf("%w: warehouse id is required", carrier.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", carrier.ErrInvalidInput)
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", carrier.ErrInvalidInput, i)
		}
		if item.WeightKg <= 0 {
			return fmt.Errorf("%w: item %d has non-positive weight", carrier.ErrInvalidInput, i)
		}
	}
	switch in.ServiceLevel {
	case ServiceLevelStandard, ServiceLevelExpress:
	case "":
		// defaulted to standard by the service
	default:
		return fmt.Errorf("%w: unknown service level %q", carrier.ErrInvalidInput, in.ServiceLevel)
	}
	return nil
}

// ItemInput describes one manifest line of an order or checkout request.
type ItemInput struct {
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

// BookingResult is returned to the caller after a committed booking.
type BookingResult struct {
	OrderID           uuid.UUID
	SelectedCarrier   string
	SelectedQuoteID   string
	ShippingCost      carrier.Money
	TransitDays       int
	EstimatedDelivery *time.Time
	AllQuotes         []carrier.Quote
}

// CheckoutInput is the read-only quoting request; no order exists yet.
type CheckoutInput struct {
	WarehouseID uuid.UUID
	Destination carrier.Address
	Items       []ItemInput
}

// QuoteOption is one displayable shipping choice at checkout.
type QuoteOption struct {
	QuoteID           string
	Carrier           string
	CarrierName       string
	ServiceName       string
	ServiceType       carrier.ServiceType
	Price             carrier.Money
	TransitDays       int
	EstimatedDelivery *time.Time
}

// CriteriaPolicy maps service levels to selection weight tuples. The tuples
// are configuration, not code: expedited orders weight speed higher.
type CriteriaPolicy struct {
	Standard carrier.SelectionCriteria
	Express  carrier.SelectionCriteria
}

// For returns the criteria for a service level, defaulting to standard.
func (p CriteriaPolicy) For(level ServiceLevel) carrier.SelectionCriteria {
	if level == ServiceLevelExpress {
		return p.Express
	}
	return p.Standard
}
