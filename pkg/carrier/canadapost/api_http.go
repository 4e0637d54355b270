package canadapost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/XML.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	accountID  string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string // Password for Basic Auth
	AccountID string
	Timeout   time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		accountID: cfg.AccountID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ============================================================================
// XML Request/Response structures for Canada Post API
// ============================================================================

// mailingScenario is the XML structure for rate requests
type mailingScenario struct {
	XMLName          xml.Name              `xml:"mailing-scenario"`
	Xmlns            string                `xml:"xmlns,attr"`
	CustomerNumber   string                `xml:"customer-number,omitempty"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	OriginPostalCode string                `xml:"origin-postal-code"`
	Destination      xmlDestination        `xml:"destination"`
}

type parcelCharacteristics struct {
	Weight     float64        `xml:"weight"`
	Dimensions *xmlDimensions `xml:"dimensions,omitempty"`
}

type xmlDimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

type xmlDestination struct {
	Domestic      *xmlDomestic      `xml:"domestic,omitempty"`
	UnitedStates  *xmlUnitedStates  `xml:"united-states,omitempty"`
	International *xmlInternational `xml:"international,omitempty"`
}

type xmlDomestic struct {
	PostalCode string `xml:"postal-code"`
}

type xmlUnitedStates struct {
	ZipCode string `xml:"zip-code"`
}

type xmlInternational struct {
	CountryCode string `xml:"country-code"`
}

// priceQuotes is the XML response structure for rates
type priceQuotes struct {
	XMLName    xml.Name     `xml:"price-quotes"`
	PriceQuote []priceQuote `xml:"price-quote"`
}

type priceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceLink     serviceLink     `xml:"service-link"`
	PriceDetails    priceDetails    `xml:"price-details"`
	ServiceStandard serviceStandard `xml:"service-standard"`
}

type serviceLink struct {
	ServiceName string `xml:"service-name"`
	Href        string `xml:"href,attr"`
}

type priceDetails struct {
	Base        float64     `xml:"base"`
	Taxes       priceTaxes  `xml:"taxes"`
	Due         float64     `xml:"due"`
	Adjustments adjustments `xml:"adjustments"`
}

type priceTaxes struct {
	GST float64 `xml:"gst"`
	PST float64 `xml:"pst"`
	HST float64 `xml:"hst"`
}

type adjustments struct {
	Adjustment []adjustment `xml:"adjustment"`
}

type adjustment struct {
	AdjustmentCode string  `xml:"adjustment-code"`
	AdjustmentCost float64 `xml:"adjustment-cost"`
}

type serviceStandard struct {
	AMDelivery           bool   `xml:"am-delivery"`
	GuaranteedDelivery   bool   `xml:"guaranteed-delivery"`
	ExpectedTransitTime  int    `xml:"expected-transit-time"`
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// messages is the XML error response structure
type messages struct {
	XMLName xml.Name  `xml:"messages"`
	Message []message `xml:"message"`
}

type message struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
}

// ============================================================================
// API Implementation
// ============================================================================

// GetRates fetches shipping rates from the Canada Post API.
func (c *HTTPAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	scenario := mailingScenario{
		Xmlns:            "http://www.canadapost.ca/ws/ship/rate-v4",
		CustomerNumber:   req.CustomerNumber,
		OriginPostalCode: normalizePostalCode(req.OriginPostal),
		ParcelCharacter: parcelCharacteristics{
			Weight: req.Weight,
		},
	}

	if req.Dimensions.Length > 0 {
		scenario.ParcelCharacter.Dimensions = &xmlDimensions{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		}
	}

	if req.Destination.Domestic != nil {
		scenario.Destination.Domestic = &xmlDomestic{
			PostalCode: normalizePostalCode(req.Destination.Domestic.PostalCode),
		}
	} else if req.Destination.International != nil {
		if req.Destination.International.CountryCode == "US" {
			scenario.Destination.UnitedStates = &xmlUnitedStates{
				ZipCode: normalizePostalCode(req.Destination.International.PostalCode),
			}
		} else {
			scenario.Destination.International = &xmlInternational{
				CountryCode: req.Destination.International.CountryCode,
			}
		}
	}

	xmlBody, err := xml.Marshal(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	path := "/rs/ship/price"
	resp, err := c.doRequest(ctx, http.MethodPost, path, "application/vnd.cpc.ship.rate-v4+xml", xmlBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var quotes priceQuotes
	if err := xml.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return c.convertRatesResponse(&quotes), nil
}

func (c *HTTPAPIClient) convertRatesResponse(quotes *priceQuotes) *RatesResponse {
	rates := make([]Rate, len(quotes.PriceQuote))
	for i, q := range quotes.PriceQuote {
		// Fuel surcharge is reported as a price adjustment
		var fuelSurcharge float64
		for _, adj := range q.PriceDetails.Adjustments.Adjustment {
			if adj.AdjustmentCode == "FUELSC" {
				fuelSurcharge = adj.AdjustmentCost
				break
			}
		}

		taxes := q.PriceDetails.Taxes.GST + q.PriceDetails.Taxes.PST + q.PriceDetails.Taxes.HST

		rates[i] = Rate{
			ServiceCode:        q.ServiceCode,
			ServiceName:        q.ServiceLink.ServiceName,
			BaseRate:           q.PriceDetails.Base,
			FuelSurcharge:      fuelSurcharge,
			Taxes:              taxes,
			TotalPrice:         q.PriceDetails.Due,
			ExpectedTransit:    q.ServiceStandard.ExpectedTransitTime,
			ExpectedDelivery:   q.ServiceStandard.ExpectedDeliveryDate,
			GuaranteedDelivery: q.ServiceStandard.GuaranteedDelivery,
		}
	}

	return &RatesResponse{
		QuoteID: fmt.Sprintf("cp-quote-%d", time.Now().UnixNano()),
		Rates:   rates,
	}
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path, accept string, body []byte) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Canada Post uses Basic Auth with API key:secret
	credentials := c.apiKey
	if c.apiSecret != "" {
		credentials = c.apiKey + ":" + c.apiSecret
	}
	auth := base64.StdEncoding.EncodeToString([]byte(credentials))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept-Language", "en-CA")

	if body != nil && accept != "" {
		req.Header.Set("Content-Type", accept)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return c.httpClient.Do(req)
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to parse as XML error
	var msgs messages
	if err := xml.Unmarshal(body, &msgs); err == nil && len(msgs.Message) > 0 {
		return &APIError{
			Code:        msgs.Message[0].Code,
			Description: msgs.Message[0].Description,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

// normalizePostalCode removes spaces from postal codes
func normalizePostalCode(pc string) string {
	return strings.ReplaceAll(strings.ToUpper(pc), " ", "")
}

var _ APIClient = (*HTTPAPIClient)(nil)
