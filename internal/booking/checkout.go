package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/orders/pkg/carrier"
	"go.uber.org/zap"
)

// CheckoutOptions aggregates quotes for a cart without touching persistence:
// no order row, no selection, no assignment. Options come back sorted by
// ascending price for display. An empty aggregation surfaces as
// ErrNoShippingOptions.
func (s *Service) CheckoutOptions(ctx context.Context, input CheckoutInput) ([]QuoteOption, error) {
	start := time.Now()

	options, err := s.checkoutOptions(ctx, input)
	if err != nil {
		s.metrics.RecordRequest("checkout_options", "error", time.Since(start).Seconds())
		return nil, err
	}

	s.metrics.RecordRequest("checkout_options", "ok", time.Since(start).Seconds())
	return options, nil
}

func (s *Service) checkoutOptions(ctx context.Context, input CheckoutInput) ([]QuoteOption, error) {
	if input.WarehouseID == uuid.Nil {
		return nil, fmt.Errorf("%w: warehouse id is required", carrier.ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: checkout needs at least one item", carrier.ErrInvalidInput)
	}

	warehouse, err := s.warehouses.Get(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}

	items := make([]carrier.ManifestItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = carrier.ManifestItem{
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

	// No order exists yet at checkout; quote under a synthetic reference.
	shipment := &carrier.ShipmentRequest{
		OrderRef:    "checkout-" + uuid.New().String(),
		Origin:      warehouse.Address,
		Destination: input.Destination,
		Items:       items,
	}

	quotes, err := s.rates.CollectQuotes(ctx, shipment)
	if err != nil {
		if errors.Is(err, carrier.ErrNoQuotesAvailable) {
			return nil, fmt.Errorf("%w: %s", ErrNoShippingOptions, shipment.OrderRef)
		}
		return nil, err
	}
	s.metrics.RecordQuotes("checkout_options", len(quotes))

	options := make([]QuoteOption, len(quotes))
	for i, q := range quotes {
		options[i] = QuoteOption{
			QuoteID:           q.QuoteID,
			Carrier:           q.Carrier,
			CarrierName:       q.CarrierName,
			ServiceName:       q.ServiceName,
			ServiceType:       q.ServiceType,
			Price:             q.Price,
			TransitDays:       q.TransitDays,
			EstimatedDelivery: q.EstimatedDelivery,
		}
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Price.Amount != options[j].Price.Amount {
			return options[i].Price.Amount < options[j].Price.Amount
		}
		if options[i].TransitDays != options[j].TransitDays {
			return options[i].TransitDays < options[j].TransitDays
		}
		return options[i].Carrier < options[j].Carrier
	})

	s.logger.Info("Checkout options prepared",
		zap.String("reference", shipment.OrderRef),
		zap.Int("option_count", len(options)),
	)

	return options, nil
}
