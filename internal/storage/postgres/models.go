// Package postgres provides the GORM-based persistence layer: the unit of
// work implementing the atomic booking boundary, the transaction-bound
// repositories, the warehouse directory, and the carrier reliability store.
package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/orders/internal/booking"
	"github.com/tournevent/orders/pkg/carrier"
)

// orderDTO maps the order aggregate to the orders table.
type orderDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerName         string
	WarehouseID          uuid.UUID `gorm:"type:uuid;index"`
	DestName             string
	DestLine1            string
	DestLine2            string
	DestCity             string
	DestProvinceCode     string
	DestPostalCode       string
	DestCountryCode      string
	ServiceLevel         string
	Status               string `gorm:"index"`
	CarrierID            *string
	ShippingCostAmount   *float64
	ShippingCostCurrency *string
	TransitDays          int
	EstimatedDelivery    *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Items []orderItemDTO `gorm:"foreignKey:OrderID"`
}

func (orderDTO) TableName() string { return "orders" }

// orderItemDTO maps one manifest line to the order_items table.
type orderItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	SKU         string    `gorm:"column:sku"`
	Description string
	Quantity    int
	WeightKg    float64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	Fragile     bool
	ColdChain   bool
}

func (orderItemDTO) TableName() string { return "order_items" }

// selectedQuoteDTO is the selection audit row, keyed by the unique quote ID.
type selectedQuoteDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	QuoteID           string    `gorm:"index"`
	Carrier           string
	PriceAmount       float64
	PriceCurrency     string
	TransitDays       int
	PriceWeight       float64
	SpeedWeight       float64
	ReliabilityWeight float64
	SelectedAt        time.Time
}

func (selectedQuoteDTO) TableName() string { return "selected_quotes" }

// carrierAssignmentDTO is the immutable audit record binding an order to its
// carrier. Status is progressed by downstream fulfillment, never here.
type carrierAssignmentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Carrier         string    `gorm:"index"`
	QuoteID         string
	Status          string `gorm:"index"`
	DecisionContext []byte `gorm:"type:jsonb"`
	CreatedAt       time.Time
}

func (carrierAssignmentDTO) TableName() string { return "carrier_assignments" }

// warehouseDTO maps shipping origins.
type warehouseDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Line1        string
	Line2        string
	City         string
	ProvinceCode string
	PostalCode   string
	CountryCode  string
	Latitude     float64
	Longitude    float64
}

func (warehouseDTO) TableName() string { return "warehouses" }

// carrierReliabilityDTO holds the per-carrier on-time rate consumed by quote
// selection and recomputed by the refresh job.
type carrierReliabilityDTO struct {
	Carrier    string `gorm:"primaryKey"`
	Rating     float64
	SampleSize int
	UpdatedAt  time.Time
}

func (carrierReliabilityDTO) TableName() string { return "carrier_reliability" }

// ============================================================================
// Domain mapping
// ============================================================================

func orderFromDomain(o *booking.Order) orderDTO {
	dto := orderDTO{
		ID:                o.ID,
		CustomerName:      o.CustomerName,
		WarehouseID:       o.WarehouseID,
		DestName:          o.Destination.Name,
		DestLine1:         o.Destination.Line1,
		DestLine2:         o.Destination.Line2,
		DestCity:          o.Destination.City,
		DestProvinceCode:  o.Destination.ProvinceCode,
		DestPostalCode:    o.Destination.PostalCode,
		DestCountryCode:   o.Destination.CountryCode,
		ServiceLevel:      string(o.ServiceLevel),
		Status:            string(o.Status),
		TransitDays:       o.TransitDays,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}

	if o.CarrierID != "" {
		id := o.CarrierID
		dto.CarrierID = &id
	}
	if o.ShippingCost != nil {
		amount := o.ShippingCost.Amount
		currency := o.ShippingCost.Currency
		dto.ShippingCostAmount = &amount
		dto.ShippingCostCurrency = &currency
	}

	dto.Items = make([]orderItemDTO, len(o.Items))
	for i, item := range o.Items {
		dto.Items[i] = itemFromDomain(item)
	}
	return dto
}

func itemFromDomain(item booking.OrderItem) orderItemDTO {
	return orderItemDTO{
		ID:          item.ID,
		OrderID:     item.OrderID,
		SKU:         item.SKU,
		Description: item.Description,
		Quantity:    item.Quantity,
		WeightKg:    item.WeightKg,
		LengthCm:    item.LengthCm,
		WidthCm:     item.WidthCm,
		HeightCm:    item.HeightCm,
		Fragile:     item.Fragile,
		ColdChain:   item.ColdChain,
	}
}

func orderToDomain(dto orderDTO) *booking.Order {
	o := &booking.Order{
		ID:           dto.ID,
		CustomerName: dto.CustomerName,
		WarehouseID:  dto.WarehouseID,
		Destination: carrier.Address{
			Name:         dto.DestName,
			Line1:        dto.DestLine1,
			Line2:        dto.DestLine2,
			City:         dto.DestCity,
			ProvinceCode: dto.DestProvinceCode,
			PostalCode:   dto.DestPostalCode,
			CountryCode:  dto.DestCountryCode,
		},
		ServiceLevel:      booking.ServiceLevel(dto.ServiceLevel),
		Status:            booking.OrderStatus(dto.Status),
		TransitDays:       dto.TransitDays,
		EstimatedDelivery: dto.EstimatedDelivery,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	}

	if dto.CarrierID != nil {
		o.CarrierID = *dto.CarrierID
	}
	if dto.ShippingCostAmount != nil && dto.ShippingCostCurrency != nil {
		o.ShippingCost = &carrier.Money{
			Amount:   *dto.ShippingCostAmount,
			Currency: *dto.ShippingCostCurrency,
		}
	}

	o.Items = make([]booking.OrderItem, len(dto.Items))
	for i, item := range dto.Items {
		o.Items[i] = booking.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			SKU:         item.SKU,
			Description: item.Description,
			Quantity:    item.Quantity,
			WeightKg:    item.WeightKg,
			LengthCm:    item.LengthCm,
			WidthCm:     item.WidthCm,
			HeightCm:    item.HeightCm,
			Fragile:     item.Fragile,
			ColdChain:   item.ColdChain,
		}
	}
	return o
}

func selectionFromDomain(rec *booking.SelectionRecord) selectedQuoteDTO {
	return selectedQuoteDTO{
		ID:                rec.ID,
		OrderID:           rec.OrderID,
		QuoteID:           rec.QuoteID,
		Carrier:           rec.Carrier,
		PriceAmount:       rec.Price.Amount,
		PriceCurrency:     rec.Price.Currency,
		TransitDays:       rec.TransitDays,
		PriceWeight:       rec.Criteria.PriceWeight,
		SpeedWeight:       rec.Criteria.SpeedWeight,
		ReliabilityWeight: rec.Criteria.ReliabilityWeight,
		SelectedAt:        rec.SelectedAt,
	}
}

func assignmentFromDomain(a *booking.CarrierAssignment) carrierAssignmentDTO {
	return carrierAssignmentDTO{
		ID:              a.ID,
		OrderID:         a.OrderID,
		Carrier:         a.Carrier,
		QuoteID:         a.QuoteID,
		Status:          string(a.Status),
		DecisionContext: []byte(a.DecisionContext),
		CreatedAt:       a.CreatedAt,
	}
}

func warehouseToDomain(dto warehouseDTO) *booking.Warehouse {
	return &booking.Warehouse{
		ID:   dto.ID,
		Name: dto.Name,
		Address: carrier.Address{
			Name:         dto.Name,
			Line1:        dto.Line1,
			Line2:        dto.Line2,
			City:         dto.City,
			ProvinceCode: dto.ProvinceCode,
			PostalCode:   dto.PostalCode,
			CountryCode:  dto.CountryCode,
			Latitude:     dto.Latitude,
			Longitude:    dto.Longitude,
		},
	}
}
