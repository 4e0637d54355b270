package freightcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	PollInterval time.Duration // Interval between polls while rating is pending
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 500 * time.Millisecond
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pollInterval: pollInterval,
	}
}

// GetRates fetches shipping rates from the Freightcom API.
// This is an async operation: POST /rate returns a request_id,
// then we poll GET /rate/{request_id} until complete. The caller's
// context deadline bounds the whole exchange.
func (c *HTTPAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/rate", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var rateReq RateRequestResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateReq); err != nil {
		return nil, fmt.Errorf("failed to decode rate request response: %w", err)
	}

	return c.pollRates(ctx, rateReq.RequestID)
}

// pollRates polls the rate endpoint until results are ready or the context expires.
func (c *HTTPAPIClient) pollRates(ctx context.Context, requestID string) (*RatesResponse, error) {
	path := fmt.Sprintf("/rate/%s", requestID)

	for {
		resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			err := c.parseError(resp)
			resp.Body.Close()
			return nil, err
		}

		var result RatesResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to decode rates response: %w", err)
		}
		resp.Body.Close()

		switch result.Status {
		case "complete":
			return &result, nil
		case "error":
			return nil, &APIError{
				Code:    "RATE_ERROR",
				Message: result.Error,
			}
		case "pending":
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pollInterval):
			}
		default:
			return nil, &APIError{
				Code:    "UNKNOWN_STATUS",
				Message: fmt.Sprintf("Unknown rate status: %s", result.Status),
			}
		}
	}
}

// doRequest performs an HTTP request with proper headers and authentication.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey) // Freightcom uses X-API-Key header
	req.Header.Set("User-Agent", "delivro-orders/1.0")

	return c.httpClient.Do(req)
}

// parseError extracts error information from an HTTP response.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		return &apiErr
	}

	var simpleErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &simpleErr); err == nil {
		msg := simpleErr.Error
		if msg == "" {
			msg = simpleErr.Message
		}
		if msg != "" {
			return &APIError{
				Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message: msg,
			}
		}
	}

	return &APIError{
		Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message: string(body),
	}
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
