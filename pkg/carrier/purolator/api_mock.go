package purolator

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

	quoteID := "puro-quote-" + uuid.New().String()[:8]
	deliveryGround := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	deliveryExpress := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	deliveryAM := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	return &RatesResponse{
		QuoteID: quoteID,
		ShipmentRates: []ShipmentRate{
			{
				ServiceCode:          "PurolatorGround",
				ServiceName:          "Purolator Ground",
				BasePrice:            16.75,
				FuelSurcharge:        2.01,
				Taxes:                2.44,
				TotalPrice:           21.20,
				ExpectedDeliveryDate: deliveryGround,
				EstimatedTransitDays: 5,
				GuaranteedDelivery:   false,
			},
			{
				ServiceCode:          "PurolatorExpress",
				ServiceName:          "Purolator Express",
				BasePrice:            28.50,
				FuelSurcharge:        3.42,
				Taxes:                4.15,
				TotalPrice:           36.07,
				ExpectedDeliveryDate: deliveryExpress,
				EstimatedTransitDays: 2,
				GuaranteedDelivery:   true,
			},
			{
				ServiceCode:          "PurolatorExpress9AM",
				ServiceName:          "Purolator Express 9AM",
				BasePrice:            45.00,
				FuelSurcharge:        5.40,
				Taxes:                6.55,
				TotalPrice:           56.95,
				ExpectedDeliveryDate: deliveryAM,
				EstimatedTransitDays: 1,
				GuaranteedDelivery:   true,
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
