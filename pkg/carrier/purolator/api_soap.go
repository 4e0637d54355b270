package purolator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"text/template"
	"time"
)

// SOAPAPIClient is the production implementation of APIClient using SOAP/WSDL.
type SOAPAPIClient struct {
	wsdlURL       string
	username      string
	password      string
	accountNumber string
	httpClient    *http.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	WSDLURL       string
	Username      string
	Password      string
	AccountNumber string
	Timeout       time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SOAPAPIClient{
		wsdlURL:       cfg.WSDLURL,
		username:      cfg.Username,
		password:      cfg.Password,
		accountNumber: cfg.AccountNumber,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRates fetches shipping rates from the Purolator EstimatingService.
func (c *SOAPAPIClient) GetRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	// Build SOAP envelope for GetFullEstimate request
	soapBody, err := c.buildRatesRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	endpoint := c.getEstimatingServiceEndpoint()
	resp, err := c.doSOAPRequest(ctx, endpoint, "GetFullEstimate", soapBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseSOAPError(resp)
	}

	return c.parseRatesResponse(resp.Body)
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, endpoint, action string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Purolator uses Basic Auth
	auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("http://purolator.com/pws/service/v2/%s", action))

	return c.httpClient.Do(req)
}

func (c *SOAPAPIClient) getEstimatingServiceEndpoint() string {
	return c.wsdlURL + "/EWS/V2/Estimating/EstimatingService.asmx"
}

// ============================================================================
// SOAP Request Builders
// ============================================================================

const soapEnvelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:v2="http://purolator.com/pws/datatypes/v2">
  <soap:Header>
    <v2:RequestContext>
      <v2:Version>2.2</v2:Version>
      <v2:Language>en</v2:Language>
      <v2:GroupID>xxx</v2:GroupID>
      <v2:RequestReference>{{.RequestRef}}</v2:RequestReference>
    </v2:RequestContext>
  </soap:Header>
  <soap:Body>
    {{.Body}}
  </soap:Body>
</soap:Envelope>`

func (c *SOAPAPIClient) buildRatesRequest(req *RatesRequest) ([]byte, error) {
	bodyTmpl := `<v2:GetFullEstimateRequest>
      <v2:Shipment>
        <v2:SenderInformation>
          <v2:Address>
            <v2:PostalCode>{{.SenderPostalCode}}</v2:PostalCode>
            <v2:Country>CA</v2:Country>
          </v2:Address>
        </v2:SenderInformation>
        <v2:ReceiverInformation>
          <v2:Address>
            <v2:City>{{.ReceiverAddress.City}}</v2:City>
            <v2:Province>{{.ReceiverAddress.Province}}</v2:Province>
            <v2:PostalCode>{{.ReceiverAddress.PostalCode}}</v2:PostalCode>
            <v2:Country>{{.ReceiverAddress.Country}}</v2:Country>
          </v2:Address>
        </v2:ReceiverInformation>
        <v2:PackageInformation>
          <v2:TotalWeight>
            <v2:Value>{{.PackageInformation.TotalWeight.Value}}</v2:Value>
            <v2:WeightUnit>{{.PackageInformation.TotalWeight.Unit}}</v2:WeightUnit>
          </v2:TotalWeight>
          <v2:TotalPieces>{{.PackageInformation.TotalPieces}}</v2:TotalPieces>
        </v2:PackageInformation>
        <v2:PaymentInformation>
          <v2:PaymentType>Sender</v2:PaymentType>
          <v2:RegisteredAccountNumber>{{.BillingAccountNumber}}</v2:RegisteredAccountNumber>
        </v2:PaymentInformation>
      </v2:Shipment>
      <v2:ShowAlternativeServicesIndicator>true</v2:ShowAlternativeServicesIndicator>
    </v2:GetFullEstimateRequest>`

	return c.buildEnvelope(bodyTmpl, req)
}

func (c *SOAPAPIClient) buildEnvelope(bodyTemplate string, data interface{}) ([]byte, error) {
	bodyTmpl, err := template.New("body").Parse(bodyTemplate)
	if err != nil {
		return nil, err
	}

	var bodyBuf bytes.Buffer
	if err := bodyTmpl.Execute(&bodyBuf, data); err != nil {
		return nil, err
	}

	envTmpl, err := template.New("envelope").Parse(soapEnvelopeTemplate)
	if err != nil {
		return nil, err
	}

	envData := struct {
		RequestRef string
		Body       string
	}{
		RequestRef: fmt.Sprintf("req-%d", time.Now().UnixNano()),
		Body:       bodyBuf.String(),
	}

	var envBuf bytes.Buffer
	if err := envTmpl.Execute(&envBuf, envData); err != nil {
		return nil, err
	}

	return envBuf.Bytes(), nil
}

// ============================================================================
// SOAP Response Parsers - XML Types
// ============================================================================

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Fault                   *soapFault               `xml:"Fault,omitempty"`
	GetFullEstimateResponse *getFullEstimateResponse `xml:"GetFullEstimateResponse,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type getFullEstimateResponse struct {
	ResponseInformation responseInfo      `xml:"ResponseInformation"`
	ShipmentEstimates   shipmentEstimates `xml:"ShipmentEstimates"`
}

type responseInfo struct {
	Errors []responseError `xml:"Errors>Error"`
}

type responseError struct {
	Code        string `xml:"Code"`
	Description string `xml:"Description"`
}

type shipmentEstimates struct {
	ShipmentEstimate []shipmentEstimate `xml:"ShipmentEstimate"`
}

type shipmentEstimate struct {
	ServiceID            string         `xml:"ServiceID"`
	ShipmentDate         string         `xml:"ShipmentDate"`
	ExpectedDeliveryDate string         `xml:"ExpectedDeliveryDate"`
	EstimatedTransitDays int            `xml:"EstimatedTransitDays"`
	BasePrice            string         `xml:"BasePrice"`
	Surcharges           soapSurcharges `xml:"Surcharges"`
	Taxes                soapTaxes      `xml:"Taxes"`
	TotalPrice           string         `xml:"TotalPrice"`
}

type soapSurcharges struct {
	Surcharge []soapSurcharge `xml:"Surcharge"`
}

type soapSurcharge struct {
	Amount      string `xml:"Amount"`
	Type        string `xml:"Type"`
	Description string `xml:"Description"`
}

type soapTaxes struct {
	Tax []soapTax `xml:"Tax"`
}

type soapTax struct {
	Amount      string `xml:"Amount"`
	Type        string `xml:"Type"`
	Description string `xml:"Description"`
}

// ============================================================================
// SOAP Response Parsing Functions
// ============================================================================

func (c *SOAPAPIClient) parseSOAPError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Body.Fault != nil {
		return &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Description: string(body),
	}
}

func (c *SOAPAPIClient) parseRatesResponse(body io.Reader) (*RatesResponse, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var env soapEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if env.Body.Fault != nil {
		return nil, &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
		}
	}

	if env.Body.GetFullEstimateResponse == nil {
		return nil, &APIError{
			Code:        "PARSE_ERROR",
			Description: "No rate estimates in response",
		}
	}

	resp := env.Body.GetFullEstimateResponse

	if len(resp.ResponseInformation.Errors) > 0 {
		e := resp.ResponseInformation.Errors[0]
		return nil, &APIError{
			Code:        e.Code,
			Description: e.Description,
		}
	}

	rates := make([]ShipmentRate, len(resp.ShipmentEstimates.ShipmentEstimate))
	for i, est := range resp.ShipmentEstimates.ShipmentEstimate {
		var fuelSurcharge float64
		for _, sc := range est.Surcharges.Surcharge {
			if sc.Type == "Fuel" || sc.Type == "FuelSurcharge" {
				fuelSurcharge = parseFloat(sc.Amount)
			}
		}

		var taxes float64
		for _, tax := range est.Taxes.Tax {
			taxes += parseFloat(tax.Amount)
		}

		rates[i] = ShipmentRate{
			ServiceCode:          est.ServiceID,
			ServiceName:          mapServiceName(est.ServiceID),
			BasePrice:            parseFloat(est.BasePrice),
			FuelSurcharge:        fuelSurcharge,
			Taxes:                taxes,
			TotalPrice:           parseFloat(est.TotalPrice),
			ExpectedDeliveryDate: est.ExpectedDeliveryDate,
			EstimatedTransitDays: est.EstimatedTransitDays,
			GuaranteedDelivery:   isGuaranteedService(est.ServiceID),
		}
	}

	return &RatesResponse{
		QuoteID:       fmt.Sprintf("puro-quote-%d", time.Now().UnixNano()),
		ShipmentRates: rates,
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func parseFloat(s string) float64 {
	var f float64
	fmt.Sscanf(s, "%f", &f)
	return f
}

func mapServiceName(serviceID string) string {
	serviceNames := map[string]string{
		"PurolatorExpress":        "Purolator Express",
		"PurolatorExpress9AM":     "Purolator Express 9AM",
		"PurolatorExpress10:30AM": "Purolator Express 10:30AM",
		"PurolatorExpress12PM":    "Purolator Express 12PM",
		"PurolatorExpressEvening": "Purolator Express Evening",
		"PurolatorGround":         "Purolator Ground",
		"PurolatorGround9AM":      "Purolator Ground 9AM",
		"PurolatorGround10:30AM":  "Purolator Ground 10:30AM",
		"PurolatorExpressUS":      "Purolator Express U.S.",
		"PurolatorExpressUSPack":  "Purolator Express U.S. Pack",
		"PurolatorGroundUS":       "Purolator Ground U.S.",
	}
	if name, ok := serviceNames[serviceID]; ok {
		return name
	}
	return serviceID
}

func isGuaranteedService(serviceID string) bool {
	guaranteedServices := map[string]bool{
		"PurolatorExpress":        true,
		"PurolatorExpress9AM":     true,
		"PurolatorExpress10:30AM": true,
		"PurolatorExpress12PM":    true,
		"PurolatorExpressEvening": true,
		"PurolatorExpressUS":      true,
	}
	return guaranteedServices[serviceID]
}

var _ APIClient = (*SOAPAPIClient)(nil)
