// Package booking implements the order booking orchestration: one atomic
// transaction spanning order creation, quote aggregation, selection, and the
// carrier assignment write, plus the read-only checkout quoting path.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/orders/internal/telemetry"
	"github.com/tournevent/orders/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Service orchestrates bookings and checkout quoting. All collaborators are
// injected at construction; the service holds no mutable state of its own.
type Service struct {
	uowFactory  UnitOfWorkFactory
	rates       RateSource
	warehouses  WarehouseDirectory
	reliability ReliabilitySource
	policy      CriteriaPolicy
	logger      *otelzap.Logger
	metrics     *telemetry.Metrics
}

// NewService creates the booking service.
func NewService(
	uowFactory UnitOfWorkFactory,
	rates RateSource,
	warehouses WarehouseDirectory,
	reliability ReliabilitySource,
	policy CriteriaPolicy,
	logger *otelzap.Logger,
	metrics *telemetry.Metrics,
) *Service {
	return &Service{
		uowFactory:  uowFactory,
		rates:       rates,
		warehouses:  warehouses,
		reliability: reliability,
		policy:      policy,
		logger:      logger,
		metrics:     metrics,
	}
}

// decisionContext is the audit payload stored on the carrier assignment: the
// full request, every quote considered, the criteria, and the winner.
type decisionContext struct {
	Request         *carrier.ShipmentRequest  `json:"request"`
	Quotes          []carrier.Quote           `json:"quotes"`
	Criteria        carrier.SelectionCriteria `json:"criteria"`
	SelectedQuoteID string                    `json:"selected_quote_id"`
}

// BookOrder runs one booking attempt end to end. Either the order, its items,
// the selection record, and the carrier assignment all commit together, or
// nothing persists.
func (s *Service) BookOrder(ctx context.Context, input OrderInput) (*BookingResult, error) {
	start := time.Now()

	result, err := s.bookOrder(ctx, input)
	if err != nil {
		var provErr *carrier.ProviderError
		if errors.As(err, &provErr) {
			s.metrics.RecordError(provErr.Carrier, provErr.Code)
		}
		s.metrics.RecordBooking("aborted")
		s.metrics.RecordRequest("book_order", "error", time.Since(start).Seconds())
		return nil, err
	}

	s.metrics.RecordBooking("committed")
	s.metrics.RecordRequest("book_order", "ok", time.Since(start).Seconds())
	return result, nil
}

func (s *Service) bookOrder(ctx context.Context, input OrderInput) (*BookingResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	criteria := s.policy.For(input.ServiceLevel)
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	order := newOrder(input)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.Orders().Add(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	warehouse, err := s.warehouses.Get(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}

	shipment := buildShipmentRequest(order, warehouse)

	quotes, err := s.rates.CollectQuotes(ctx, shipment)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuotes("book_order", len(quotes))
	s.logger.Info("Quotes collected",
		zap.String("order_id", order.ID.String()),
		zap.Int("quote_count", len(quotes)),
	)

	ratings, err := s.reliability.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reliability ratings: %w", err)
	}

	best, err := carrier.SelectBest(quotes, ratings, criteria)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	selection := &SelectionRecord{
		ID:          uuid.New(),
		OrderID:     order.ID,
		QuoteID:     best.QuoteID,
		Carrier:     best.Carrier,
		Price:       best.Price,
		TransitDays: best.TransitDays,
		Criteria:    criteria,
		SelectedAt:  now,
	}
	if err := uow.Selections().Add(ctx, selection); err != nil {
		return nil, fmt.Errorf("persist selection: %w", err)
	}

	order.AssignCarrier(best, now)
	if err := uow.Orders().Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	decision, err := json.Marshal(decisionContext{
		Request:         shipment,
		Quotes:          quotes,
		Criteria:        criteria,
		SelectedQuoteID: best.QuoteID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode decision context: %w", err)
	}

	assignment := &CarrierAssignment{
		ID:              uuid.New(),
		OrderID:         order.ID,
		Carrier:         best.Carrier,
		QuoteID:         best.QuoteID,
		Status:          AssignmentPending,
		DecisionContext: decision,
		CreatedAt:       now,
	}
	if err := uow.Assignments().Add(ctx, assignment); err != nil {
		return nil, fmt.Errorf("persist carrier assignment: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	s.logger.Info("Order booked",
		zap.String("order_id", order.ID.String()),
		zap.String("carrier", best.Carrier),
		zap.String("quote_id", best.QuoteID),
		zap.Float64("shipping_cost", best.Price.Amount),
		zap.String("currency", best.Price.Currency),
		zap.Int("transit_days", best.TransitDays),
	)

	return &BookingResult{
		OrderID:           order.ID,
		SelectedCarrier:   best.Carrier,
		SelectedQuoteID:   best.QuoteID,
		ShippingCost:      best.Price,
		TransitDays:       best.TransitDays,
		EstimatedDelivery: best.EstimatedDelivery,
		AllQuotes:         quotes,
	}, nil
}

func newOrder(input OrderInput) *Order {
	now := time.Now().UTC()
	level := input.ServiceLevel
	if level == "" {
		level = ServiceLevelStandard
	}

	order := &Order{
		ID:           uuid.New(),
		CustomerName: input.CustomerName,
		WarehouseID:  input.WarehouseID,
		Destination:  input.Destination,
		ServiceLevel: level,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	order.Items = make([]OrderItem, len(input.Items))
	for i, item := range input.Items {
		order.Items[i] = OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
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
	return order
}

func buildShipmentRequest(order *Order, warehouse *Warehouse) *carrier.ShipmentRequest {
	items := make([]carrier.ManifestItem, len(order.Items))
	for i, item := range order.Items {
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

	return &carrier.ShipmentRequest{
		OrderRef:    order.ID.String(),
		Origin:      warehouse.Address,
		Destination: order.Destination,
		Items:       items,
	}
}
