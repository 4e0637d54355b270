// Package freightcom provides carrier rate integration with the Freightcom shipping API.
package freightcom

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

const carrierName = "freightcom"

// Config holds Freightcom configuration.
type Config struct {
	APIKey  string
	BaseURL string
	UseMock bool // When true, uses a mock API client
}

// Client is the Freightcom rate provider.
// It implements the carrier.RateProvider interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Freightcom client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 10 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Freightcom client with a custom API client.
// This is useful for injecting mock clients in tests.
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

// FetchQuote returns normalized quotes from Freightcom.
func (c *Client) FetchQuote(ctx context.Context, req *carrier.ShipmentRequest) ([]carrier.Quote, error) {
	c.logger.Info("Getting Freightcom quotes",
		zap.String("order_ref", req.OrderRef),
		zap.String("origin_city", req.Origin.City),
		zap.String("destination_city", req.Destination.City),
		zap.Int("item_count", len(req.Items)),
	)

	apiReq := &RatesRequest{
		Details: ShippingDetails{
			Origin:      addressToLocation(req.Origin),
			Destination: addressToLocation(req.Destination),
			Packaging: PackagingInfo{
				Type:     "package",
				Packages: itemsToPackages(req.Items),
			},
		},
	}

	apiResp, err := c.apiClient.GetRates(ctx, apiReq)
	if err != nil {
		c.logger.Error("Freightcom API error", zap.Error(err))
		return nil, carrier.NewProviderError(carrierName, "RATES_FAILED", "rate request failed").WithCause(err)
	}

	quotes, err := ratesToQuotes(apiResp)
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// ============================================================================
// Conversion helpers: carrier models -> API models
// ============================================================================

func addressToLocation(addr carrier.Address) Location {
	return Location{
		Name:       addr.Name,
		Address1:   addr.Line1,
		Address2:   addr.Line2,
		City:       addr.City,
		Province:   addr.ProvinceCode,
		PostalCode: addr.PostalCode,
		Country:    addr.CountryCode,
		Phone:      addr.Phone,
	}
}

func itemsToPackages(items []carrier.ManifestItem) []Package {
	result := make([]Package, len(items))
	for i, item := range items {
		result[i] = Package{
			Length:              item.LengthCm,
			Width:               item.WidthCm,
			Height:              item.HeightCm,
			Weight:              item.WeightKg,
			Description:         item.Description,
			Quantity:            item.Quantity,
			SpecialHandling:     item.Fragile,
			RefrigerationNeeded: item.ColdChain,
		}
	}
	return result
}

// ============================================================================
// Conversion helpers: API models -> carrier models
// ============================================================================

func ratesToQuotes(resp *RatesResponse) ([]carrier.Quote, error) {
	quotes := make([]carrier.Quote, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		if r.TotalPrice <= 0 || r.TransitDays <= 0 {
			return nil, carrier.NewProviderError(carrierName, "INCOMPLETE_RATE",
				fmt.Sprintf("rate %s missing price or delivery estimate", r.ID)).
				WithCause(carrier.ErrIncompleteQuote)
		}

		var estimatedDelivery *time.Time
		if r.EstimatedDelivery != "" {
			if t, err := time.Parse("2006-01-02", r.EstimatedDelivery); err == nil {
				estimatedDelivery = &t
			}
		}

		raw, _ := json.Marshal(r)

		quotes = append(quotes, carrier.Quote{
			QuoteID:           fmt.Sprintf("%s-%s", carrierName, r.ID),
			Carrier:           carrierName,
			CarrierName:       "Freightcom",
			ServiceCode:       r.ServiceCode,
			ServiceName:       r.ServiceName,
			ServiceType:       mapServiceType(r.ServiceCode),
			Price:             carrier.Money{Amount: r.TotalPrice, Currency: r.Currency},
			TransitDays:       r.TransitDays,
			EstimatedDelivery: estimatedDelivery,
			Breakdown: map[string]carrier.Money{
				"base":           {Amount: r.BaseRate, Currency: r.Currency},
				"fuel_surcharge": {Amount: r.FuelSurcharge, Currency: r.Currency},
				"taxes":          {Amount: r.TotalTax, Currency: r.Currency},
			},
			Raw: raw,
		})
	}
	return quotes, nil
}

func mapServiceType(code string) carrier.ServiceType {
	switch code {
	case "GROUND", "STANDARD", "FEDEX_GROUND", "UPS_GROUND":
		return carrier.ServiceStandard
	case "EXPRESS", "FEDEX_EXPRESS_SAVER", "UPS_EXPRESS_SAVER":
		return carrier.ServiceExpress
	case "PRIORITY", "FEDEX_PRIORITY_OVERNIGHT", "UPS_NEXT_DAY_AIR":
		return carrier.ServicePriority
	case "OVERNIGHT", "FEDEX_STANDARD_OVERNIGHT":
		return carrier.ServiceOvernight
	case "ECONOMY", "FEDEX_ECONOMY":
		return carrier.ServiceEconomy
	default:
		return carrier.ServiceStandard
	}
}
