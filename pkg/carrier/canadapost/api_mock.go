package canadapost

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetRates func(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetRates returns mock shipping rates.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	quoteID := "cp-quote-" + uuid.New().String()[:8]

	return &RatesResponse{
		QuoteID: quoteID,
		Rates: []Rate{
			{
				ServiceCode:        "DOM.RP",
				ServiceName:        "Regular Parcel",
				BaseRate:           9.99,
				FuelSurcharge:      1.20,
				Taxes:              1.46,
				TotalPrice:         12.65,
				ExpectedTransit:    5,
				ExpectedDelivery:   time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
				GuaranteedDelivery: false,
			},
			{
				ServiceCode:        "DOM.XP",
				ServiceName:        "Xpresspost",
				BaseRate:           19.99,
				FuelSurcharge:      2.40,
				Taxes:              2.91,
				TotalPrice:         25.30,
				ExpectedTransit:    2,
				ExpectedDelivery:   time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
				GuaranteedDelivery: true,
			},
			{
				ServiceCode:        "DOM.PC",
				ServiceName:        "Priority",
				BaseRate:           34.99,
				FuelSurcharge:      4.20,
				Taxes:              5.10,
				TotalPrice:         44.29,
				ExpectedTransit:    1,
				ExpectedDelivery:   time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
				GuaranteedDelivery: true,
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
