// Package mock provides a mock rate provider for testing and local runs.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/orders/pkg/carrier"
)

// Client is a mock rate provider. Its exported fields can be set after
// construction to shape behavior per test: canned quotes, a forced error,
// or an artificial delay that still honors context cancellation.
type Client struct {
	name string

	// Quotes overrides the canned quotes returned by FetchQuote.
	Quotes []carrier.Quote
	// Err, when set, fails every FetchQuote call.
	Err error
	// Delay is waited before responding; cancellation cuts it short.
	Delay time.Duration
}

// New creates a new mock provider with two canned service-type quotes.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// FetchQuote returns the configured quotes, or a standard and an express
// canned quote when none were configured.
func (c *Client) FetchQuote(ctx context.Context, req *carrier.ShipmentRequest) ([]carrier.Quote, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.Err != nil {
		return nil, carrier.NewProviderError(c.name, "MOCK_ERROR", "simulated provider failure").WithCause(c.Err)
	}

	if c.Quotes != nil {
		out := make([]carrier.Quote, len(c.Quotes))
		copy(out, c.Quotes)
		return out, nil
	}

	now := time.Now()
	standardETA := now.Add(5 * 24 * time.Hour)
	expressETA := now.Add(2 * 24 * time.Hour)

	return []carrier.Quote{
		{
			QuoteID:           fmt.Sprintf("%s-standard-%d", c.name, now.UnixNano()),
			Carrier:           c.name,
			CarrierName:       c.name,
			ServiceCode:       "STANDARD",
			ServiceName:       fmt.Sprintf("%s Standard", c.name),
			ServiceType:       carrier.ServiceStandard,
			Price:             carrier.Money{Amount: 15.82, Currency: "CAD"},
			TransitDays:       5,
			EstimatedDelivery: &standardETA,
			Breakdown: map[string]carrier.Money{
				"base":  {Amount: 14.00, Currency: "CAD"},
				"taxes": {Amount: 1.82, Currency: "CAD"},
			},
		},
		{
			QuoteID:           fmt.Sprintf("%s-express-%d", c.name, now.UnixNano()),
			Carrier:           c.name,
			CarrierName:       c.name,
			ServiceCode:       "EXPRESS",
			ServiceName:       fmt.Sprintf("%s Express", c.name),
			ServiceType:       carrier.ServiceExpress,
			Price:             carrier.Money{Amount: 29.95, Currency: "CAD"},
			TransitDays:       2,
			EstimatedDelivery: &expressETA,
			Breakdown: map[string]carrier.Money{
				"base":  {Amount: 26.50, Currency: "CAD"},
				"taxes": {Amount: 3.45, Currency: "CAD"},
			},
		},
	}, nil
}

var _ carrier.RateProvider = (*Client)(nil)
