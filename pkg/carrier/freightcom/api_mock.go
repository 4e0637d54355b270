package freightcom

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
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	requestID := "fc-req-" + uuid.New().String()[:8]
	expiresAt := time.Now().Add(30 * time.Minute).Format(time.RFC3339)

	return &RatesResponse{
		RequestID: requestID,
		Status:    "complete",
		Rates: []Rate{
			{
				ID:                "rate-" + uuid.New().String()[:8],
				ServiceID:         101,
				CarrierCode:       "fedex",
				CarrierName:       "FedEx",
				ServiceCode:       "FEDEX_GROUND",
				ServiceName:       "FedEx Ground",
				BaseRate:          15.99,
				FuelSurcharge:     1.92,
				TotalTax:          2.33,
				TotalPrice:        20.24,
				Currency:          "CAD",
				TransitDays:       3,
				EstimatedDelivery: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
				Guaranteed:        false,
				ExpiresAt:         expiresAt,
			},
			{
				ID:                "rate-" + uuid.New().String()[:8],
				ServiceID:         102,
				CarrierCode:       "fedex",
				CarrierName:       "FedEx",
				ServiceCode:       "FEDEX_EXPRESS_SAVER",
				ServiceName:       "FedEx Express Saver",
				BaseRate:          28.99,
				FuelSurcharge:     3.48,
				TotalTax:          4.22,
				TotalPrice:        36.69,
				Currency:          "CAD",
				TransitDays:       2,
				EstimatedDelivery: time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
				Guaranteed:        true,
				ExpiresAt:         expiresAt,
			},
			{
				ID:                "rate-" + uuid.New().String()[:8],
				ServiceID:         201,
				CarrierCode:       "ups",
				CarrierName:       "UPS",
				ServiceCode:       "UPS_GROUND",
				ServiceName:       "UPS Ground",
				BaseRate:          14.50,
				FuelSurcharge:     1.74,
				TotalTax:          2.11,
				TotalPrice:        18.35,
				Currency:          "CAD",
				TransitDays:       4,
				EstimatedDelivery: time.Now().AddDate(0, 0, 4).Format("2006-01-02"),
				Guaranteed:        false,
				ExpiresAt:         expiresAt,
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
