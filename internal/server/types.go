package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tournevent/orders/internal/booking"
	"github.com/tournevent/orders/pkg/carrier"
)

// ============================================================================
// Request payloads
// ============================================================================

type bookOrderRequest struct {
	CustomerName string         `json:"customer_name"`
	WarehouseID  string         `json:"warehouse_id"`
	ServiceLevel string         `json:"service_level,omitempty"`
	Destination  addressPayload `json:"destination"`
	Items        []itemPayload  `json:"items"`
}

func (r *bookOrderRequest) toInput() (booking.OrderInput, error) {
	warehouseID, err := uuid.Parse(r.WarehouseID)
	if err != nil {
		return booking.OrderInput{}, fmt.Errorf("%w: warehouse_id: %v", carrier.ErrInvalidInput, err)
	}

	input := booking.OrderInput{
		CustomerName: r.CustomerName,
		WarehouseID:  warehouseID,
		Destination:  r.Destination.toAddress(),
		ServiceLevel: booking.ServiceLevel(r.ServiceLevel),
		Items:        itemsToInput(r.Items),
	}
	return input, nil
}

type checkoutRequest struct {
	WarehouseID string         `json:"warehouse_id"`
	Destination addressPayload `json:"destination"`
	Items       []itemPayload  `json:"items"`
}

func (r *checkoutRequest) toInput() (booking.CheckoutInput, error) {
	warehouseID, err := uuid.Parse(r.WarehouseID)
	if err != nil {
		return booking.CheckoutInput{}, fmt.Errorf("%w: warehouse_id: %v", carrier.ErrInvalidInput, err)
	}

	return booking.CheckoutInput{
		WarehouseID: warehouseID,
		Destination: r.Destination.toAddress(),
		Items:       itemsToInput(r.Items),
	}, nil
}

type addressPayload struct {
	Name         string `json:"name,omitempty"`
	Line1        string `json:"line1"`
	Line2        string `json:"line2,omitempty"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code,omitempty"`
}

func (a addressPayload) toAddress() carrier.Address {
	return carrier.Address{
		Name:         a.Name,
		Line1:        a.Line1,
		Line2:        a.Line2,
		City:         a.City,
		ProvinceCode: a.ProvinceCode,
		PostalCode:   a.PostalCode,
		CountryCode:  a.CountryCode,
	}
}

type itemPayload struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	WeightKg    float64 `json:"weight_kg"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	Fragile     bool    `json:"fragile,omitempty"`
	ColdChain   bool    `json:"cold_chain,omitempty"`
}

func itemsToInput(items []itemPayload) []booking.ItemInput {
	out := make([]booking.ItemInput, len(items))
	for i, item := range items {
		out[i] = booking.ItemInput{
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
	return out
}

// ============================================================================
// Response payloads
// ============================================================================

type moneyPayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type bookOrderResponse struct {
	OrderID           string       `json:"order_id"`
	Carrier           string       `json:"carrier"`
	QuoteID           string       `json:"quote_id"`
	ShippingCost      moneyPayload `json:"shipping_cost"`
	TransitDays       int          `json:"transit_days"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery,omitempty"`
	QuotesConsidered  int          `json:"quotes_considered"`
}

func bookOrderResponseFrom(result *booking.BookingResult) bookOrderResponse {
	return bookOrderResponse{
		OrderID: result.OrderID.String(),
		Carrier: result.SelectedCarrier,
		QuoteID: result.SelectedQuoteID,
		ShippingCost: moneyPayload{
			Amount:   result.ShippingCost.Amount,
			Currency: result.ShippingCost.Currency,
		},
		TransitDays:       result.TransitDays,
		EstimatedDelivery: result.EstimatedDelivery,
		QuotesConsidered:  len(result.AllQuotes),
	}
}

type quoteOptionPayload struct {
	QuoteID           string       `json:"quote_id"`
	Carrier           string       `json:"carrier"`
	CarrierName       string       `json:"carrier_name"`
	ServiceName       string       `json:"service_name,omitempty"`
	ServiceType       string       `json:"service_type"`
	Price             moneyPayload `json:"price"`
	TransitDays       int          `json:"transit_days"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery,omitempty"`
}

type checkoutResponse struct {
	Options []quoteOptionPayload `json:"options"`
}

func checkoutResponseFrom(options []booking.QuoteOption) checkoutResponse {
	payload := checkoutResponse{Options: make([]quoteOptionPayload, len(options))}
	for i, opt := range options {
		payload.Options[i] = quoteOptionPayload{
			QuoteID:           opt.QuoteID,
			Carrier:           opt.Carrier,
			CarrierName:       opt.CarrierName,
			ServiceName:       opt.ServiceName,
			ServiceType:       string(opt.ServiceType),
			Price:             moneyPayload{Amount: opt.Price.Amount, Currency: opt.Price.Currency},
			TransitDays:       opt.TransitDays,
			EstimatedDelivery: opt.EstimatedDelivery,
		}
	}
	return payload
}

type errorResponse struct {
	Error string `json:"error"`
}
