package carrier_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/orders/pkg/carrier"
)

func TestProviderError_Error(t *testing.T) {
	err := carrier.NewProviderError("freightcom", "INVALID_ADDRESS", "Invalid postal code")
	assert.Equal(t, "freightcom error (INVALID_ADDRESS): Invalid postal code", err.Error())
}

func TestProviderError_ErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := carrier.NewProviderError("freightcom", "API_ERROR", "API call failed").WithCause(cause)
	assert.Contains(t, err.Error(), "API call failed")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := carrier.NewProviderError("freightcom", "API_ERROR", "API call failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestProviderError_Is(t *testing.T) {
	err1 := carrier.NewProviderError("freightcom", "INVALID_ADDRESS", "Invalid postal code")
	err2 := carrier.NewProviderError("canadapost", "INVALID_ADDRESS", "Different message")

	// Same code should match
	assert.True(t, errors.Is(err1, err2))
}

func TestProviderError_IsNot(t *testing.T) {
	err1 := carrier.NewProviderError("freightcom", "INVALID_ADDRESS", "Invalid postal code")
	err2 := carrier.NewProviderError("freightcom", "DIFFERENT_CODE", "Different error")

	// Different codes should not match
	assert.False(t, errors.Is(err1, err2))
}

func TestProviderError_WithStatusCode(t *testing.T) {
	err := carrier.NewProviderError("freightcom", "AUTH_ERROR", "Unauthorized").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestProviderError_WrapsSentinel(t *testing.T) {
	err := carrier.NewProviderError("canadapost", "INCOMPLETE_RATE", "missing transit estimate").
		WithCause(carrier.ErrIncompleteQuote)
	assert.True(t, errors.Is(err, carrier.ErrIncompleteQuote))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNoQuotesAvailable", carrier.ErrNoQuotesAvailable},
		{"ErrInvalidInput", carrier.ErrInvalidInput},
		{"ErrCarrierNotFound", carrier.ErrCarrierNotFound},
		{"ErrIncompleteQuote", carrier.ErrIncompleteQuote},
		{"ErrServiceUnavailable", carrier.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
