// Package canadapost provides carrier rate integration with the Canada Post API.
package canadapost

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

const carrierName = "canadapost"

// Config holds Canada Post configuration.
type Config struct {
	APIKey    string
	APISecret string
	AccountID string
	BaseURL   string
	UseMock   bool
}

// Client is the Canada Post rate provider.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Canada Post client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			AccountID: cfg.AccountID,
			Timeout:   30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Canada Post client with a custom API client.
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

// FetchQuote returns normalized quotes from Canada Post.
func (c *Client) FetchQuote(ctx context.Context, req *carrier.ShipmentRequest) ([]carrier.Quote, error) {
	c.logger.Info("Getting Canada Post quotes",
		zap.String("order_ref", req.OrderRef),
		zap.String("origin_postal", req.Origin.PostalCode),
		zap.String("destination_postal", req.Destination.PostalCode),
		zap.Int("item_count", len(req.Items)),
	)

	apiReq := &RatesRequest{
		CustomerNumber: c.config.AccountID,
		OriginPostal:   req.Origin.PostalCode,
		// Canada Post rates a single parcel, so the manifest ships as one
		// consolidated box at the combined weight.
		Weight: req.TotalWeightKg(),
	}

	if req.Destination.CountryCode == "" || req.Destination.CountryCode == "CA" {
		apiReq.Destination.Domestic = &DomesticDestination{
			PostalCode: req.Destination.PostalCode,
		}
	} else {
		apiReq.Destination.International = &InternationalDestination{
			CountryCode: req.Destination.CountryCode,
			PostalCode:  req.Destination.PostalCode,
		}
	}

	if len(req.Items) > 0 {
		item := req.Items[0]
		apiReq.Dimensions = Dimensions{
			Length: item.LengthCm,
			Width:  item.WidthCm,
			Height: item.HeightCm,
		}
	}

	apiResp, err := c.apiClient.GetRates(ctx, apiReq)
	if err != nil {
		c.logger.Error("Canada Post API error", zap.Error(err))
		return nil, carrier.NewProviderError(carrierName, "RATES_FAILED", "rate request failed").WithCause(err)
	}

	return ratesToQuotes(apiResp)
}

// ============================================================================
// Conversion helpers
// ============================================================================

func ratesToQuotes(resp *RatesResponse) ([]carrier.Quote, error) {
	quotes := make([]carrier.Quote, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		if r.TotalPrice <= 0 || r.ExpectedTransit <= 0 {
			return nil, carrier.NewProviderError(carrierName, "INCOMPLETE_RATE",
				fmt.Sprintf("rate %s missing price or delivery estimate", r.ServiceCode)).
				WithCause(carrier.ErrIncompleteQuote)
		}

		var estimatedDelivery *time.Time
		if r.ExpectedDelivery != "" {
			if t, err := time.Parse("2006-01-02", r.ExpectedDelivery); err == nil {
				estimatedDelivery = &t
			}
		}

		raw, _ := json.Marshal(r)

		quotes = append(quotes, carrier.Quote{
			QuoteID:           fmt.Sprintf("%s-%s-%s", carrierName, resp.QuoteID, r.ServiceCode),
			Carrier:           carrierName,
			CarrierName:       "Canada Post",
			ServiceCode:       r.ServiceCode,
			ServiceName:       r.ServiceName,
			ServiceType:       mapServiceType(r.ServiceCode),
			Price:             carrier.Money{Amount: r.TotalPrice, Currency: "CAD"},
			TransitDays:       r.ExpectedTransit,
			EstimatedDelivery: estimatedDelivery,
			Breakdown: map[string]carrier.Money{
				"base":           {Amount: r.BaseRate, Currency: "CAD"},
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
	case "DOM.RP":
		return carrier.ServiceStandard
	case "DOM.XP":
		return carrier.ServiceExpress
	case "DOM.PC":
		return carrier.ServicePriority
	case "DOM.EP":
		return carrier.ServiceExpress
	default:
		return carrier.ServiceStandard
	}
}
