// Package purolator provides carrier rate integration with the Purolator
// E-Ship Web Services SOAP API.
package purolator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tournevent/orders/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "purolator"

// Config holds Purolator configuration.
type Config struct {
	Username      string
	Password      string
	AccountNumber string
	WSDLURL       string
	UseMock       bool
}

// Client is the Purolator rate provider.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Purolator client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			WSDLURL:       cfg.WSDLURL,
			Username:      cfg.Username,
			Password:      cfg.Password,
			AccountNumber: cfg.AccountNumber,
			Timeout:       30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Purolator client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// FetchQuote returns normalized quotes from Purolator.
func (c *Client) FetchQuote(ctx context.Context, req *carrier.ShipmentRequest) ([]carrier.Quote, error) {
	c.logger.Info("Getting Purolator quotes",
		zap.String("order_ref", req.OrderRef),
		zap.String("origin_postal", req.Origin.PostalCode),
		zap.String("destination_postal", req.Destination.PostalCode),
		zap.Int("item_count", len(req.Items)),
	)

	country := req.Destination.CountryCode
	if country == "" {
		country = "CA"
	}

	// Purolator rates the manifest as one consolidated shipment: combined
	// weight plus a piece count, one piece per physical unit.
	pieces := 0
	for _, item := range req.Items {
		pieces += item.Quantity
	}

	apiReq := &RatesRequest{
		BillingAccountNumber: c.config.AccountNumber,
		SenderPostalCode:     req.Origin.PostalCode,
		ReceiverAddress: Address{
			City:       req.Destination.City,
			Province:   req.Destination.ProvinceCode,
			PostalCode: req.Destination.PostalCode,
			Country:    country,
		},
		PackageInformation: PackageInformation{
			TotalWeight: Weight{Value: req.TotalWeightKg(), Unit: "kg"},
			TotalPieces: pieces,
		},
	}

	apiResp, err := c.apiClient.GetRates(ctx, apiReq)
	if err != nil {
		c.logger.Error("Purolator API error", zap.Error(err))
		return nil, carrier.NewProviderError(carrierName, "RATES_FAILED", "rate request failed").WithCause(err)
	}

	return ratesToQuotes(apiResp)
}

// ============================================================================
// Conversion helpers
// ============================================================================

func ratesToQuotes(resp *RatesResponse) ([]carrier.Quote, error) {
	quotes := make([]carrier.Quote, 0, len(resp.ShipmentRates))
	for _, r := range resp.ShipmentRates {
		if r.TotalPrice <= 0 || r.EstimatedTransitDays <= 0 {
			return nil, carrier.NewProviderError(carrierName, "INCOMPLETE_RATE",
				fmt.Sprintf("rate %s missing price or delivery estimate", r.ServiceCode)).
				WithCause(carrier.ErrIncompleteQuote)
		}

		var estimatedDelivery *time.Time
		if r.ExpectedDeliveryDate != "" {
			if t, err := time.Parse("2006-01-02", r.ExpectedDeliveryDate); err == nil {
				estimatedDelivery = &t
			}
		}

		raw, _ := json.Marshal(r)

		quotes = append(quotes, carrier.Quote{
			QuoteID:           fmt.Sprintf("%s-%s-%s", carrierName, resp.QuoteID, r.ServiceCode),
			Carrier:           carrierName,
			CarrierName:       "Purolator",
			ServiceCode:       r.ServiceCode,
			ServiceName:       r.ServiceName,
			ServiceType:       mapServiceType(r.ServiceCode),
			Price:             carrier.Money{Amount: r.TotalPrice, Currency: "CAD"},
			TransitDays:       r.EstimatedTransitDays,
			EstimatedDelivery: estimatedDelivery,
			Breakdown: map[string]carrier.Money{
				"base":           {Amount: r.BasePrice, Currency: "CAD"},
				"fuel_surcharge": {Amount: r.FuelSurcharge, Currency: "CAD"},
				"taxes":          {Amount: r.Taxes, Currency: "CAD"},
			},
			Raw: raw,
		})
	}
	return quotes, nil
}

func mapServiceType(code string) carrier.ServiceType {
	switch code {
	case "PurolatorGround", "PurolatorGround9AM", "PurolatorGround10:30AM", "PurolatorGroundUS":
		return carrier.ServiceStandard
	case "PurolatorExpress", "PurolatorExpressEvening", "PurolatorExpressUS", "PurolatorExpressUSPack":
		return carrier.ServiceExpress
	case "PurolatorExpress9AM", "PurolatorExpress10:30AM", "PurolatorExpress12PM":
		return carrier.ServiceOvernight
	default:
		return carrier.ServiceStandard
	}
}
