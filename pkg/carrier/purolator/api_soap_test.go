package purolator_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/orders/pkg/carrier/purolator"
)

const fullEstimateResponseXML = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetFullEstimateResponse xmlns="http://purolator.com/pws/datatypes/v2">
      <ResponseInformation>
        <Errors />
      </ResponseInformation>
      <ShipmentEstimates>
        <ShipmentEstimate>
          <ServiceID>PurolatorGround</ServiceID>
          <ShipmentDate>2026-08-31</ShipmentDate>
          <ExpectedDeliveryDate>2026-09-05</ExpectedDeliveryDate>
          <EstimatedTransitDays>5</EstimatedTransitDays>
          <BasePrice>16.75</BasePrice>
          <Surcharges>
            <Surcharge>
              <Amount>2.01</Amount>
              <Type>Fuel</Type>
              <Description>Fuel surcharge</Description>
            </Surcharge>
          </Surcharges>
          <Taxes>
            <Tax>
              <Amount>1.44</Amount>
              <Type>GST</Type>
              <Description>GST</Description>
            </Tax>
            <Tax>
              <Amount>1.00</Amount>
              <Type>PST</Type>
              <Description>PST</Description>
            </Tax>
          </Taxes>
          <TotalPrice>21.20</TotalPrice>
        </ShipmentEstimate>
        <ShipmentEstimate>
          <ServiceID>PurolatorExpress</ServiceID>
          <ShipmentDate>2026-08-31</ShipmentDate>
          <ExpectedDeliveryDate>2026-09-02</ExpectedDeliveryDate>
          <EstimatedTransitDays>2</EstimatedTransitDays>
          <BasePrice>28.50</BasePrice>
          <Surcharges />
          <Taxes />
          <TotalPrice>36.07</TotalPrice>
        </ShipmentEstimate>
      </ShipmentEstimates>
    </GetFullEstimateResponse>
  </s:Body>
</s:Envelope>`

const soapFaultXML = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <s:Fault>
      <faultcode>s:Client</faultcode>
      <faultstring>Invalid credentials</faultstring>
    </s:Fault>
  </s:Body>
</s:Envelope>`

func TestSOAPAPIClient_GetRates(t *testing.T) {
	var (
		capturedPath   string
		capturedAuth   string
		capturedAction string
		requestBody    []byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedAuth = r.Header.Get("Authorization")
		capturedAction = r.Header.Get("SOAPAction")
		requestBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Write([]byte(fullEstimateResponseXML))
	}))
	defer srv.Close()

	client := purolator.NewSOAPAPIClient(purolator.SOAPAPIClientConfig{
		WSDLURL:       srv.URL,
		Username:      "user",
		Password:      "pass",
		AccountNumber: "9999999999",
	})

	resp, err := client.GetRates(context.Background(), &purolator.RatesRequest{
		BillingAccountNumber: "9999999999",
		SenderPostalCode:     "M5V 2T6",
		ReceiverAddress: purolator.Address{
			City:       "Calgary",
			Province:   "AB",
			PostalCode: "T2P 1J9",
			Country:    "CA",
		},
		PackageInformation: purolator.PackageInformation{
			TotalWeight: purolator.Weight{Value: 4.5, Unit: "kg"},
			TotalPieces: 3,
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.ShipmentRates, 2)

	ground := resp.ShipmentRates[0]
	assert.Equal(t, "PurolatorGround", ground.ServiceCode)
	assert.Equal(t, "Purolator Ground", ground.ServiceName)
	assert.InDelta(t, 16.75, ground.BasePrice, 0.001)
	assert.InDelta(t, 2.01, ground.FuelSurcharge, 0.001)
	assert.InDelta(t, 2.44, ground.Taxes, 0.001) // GST + PST summed
	assert.InDelta(t, 21.20, ground.TotalPrice, 0.001)
	assert.Equal(t, 5, ground.EstimatedTransitDays)
	assert.Equal(t, "2026-09-05", ground.ExpectedDeliveryDate)
	assert.False(t, ground.GuaranteedDelivery)

	express := resp.ShipmentRates[1]
	assert.Equal(t, "PurolatorExpress", express.ServiceCode)
	assert.True(t, express.GuaranteedDelivery)

	assert.Equal(t, "/EWS/V2/Estimating/EstimatingService.asmx", capturedPath)
	assert.Equal(t, "http://purolator.com/pws/service/v2/GetFullEstimate", capturedAction)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	assert.Equal(t, wantAuth, capturedAuth)

	body := string(requestBody)
	assert.Contains(t, body, "<v2:GetFullEstimateRequest>")
	assert.Contains(t, body, "<v2:PostalCode>M5V 2T6</v2:PostalCode>")
	assert.Contains(t, body, "<v2:PostalCode>T2P 1J9</v2:PostalCode>")
	assert.Contains(t, body, "<v2:Value>4.5</v2:Value>")
	assert.Contains(t, body, "<v2:TotalPieces>3</v2:TotalPieces>")
	assert.Contains(t, body, "<v2:RegisteredAccountNumber>9999999999</v2:RegisteredAccountNumber>")
}

func TestSOAPAPIClient_GetRates_SOAPFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(soapFaultXML))
	}))
	defer srv.Close()

	client := purolator.NewSOAPAPIClient(purolator.SOAPAPIClientConfig{
		WSDLURL:  srv.URL,
		Username: "user",
		Password: "wrong",
	})

	_, err := client.GetRates(context.Background(), &purolator.RatesRequest{
		SenderPostalCode: "M5V 2T6",
	})

	require.Error(t, err)

	var apiErr *purolator.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "s:Client", apiErr.Code)
	assert.Equal(t, "Invalid credentials", apiErr.Description)
}

func TestSOAPAPIClient_GetRates_ResponseErrors(t *testing.T) {
	const errorResponseXML = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetFullEstimateResponse xmlns="http://purolator.com/pws/datatypes/v2">
      <ResponseInformation>
        <Errors>
          <Error>
            <Code>1100002</Code>
            <Description>Invalid postal code</Description>
          </Error>
        </Errors>
      </ResponseInformation>
      <ShipmentEstimates />
    </GetFullEstimateResponse>
  </s:Body>
</s:Envelope>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Write([]byte(errorResponseXML))
	}))
	defer srv.Close()

	client := purolator.NewSOAPAPIClient(purolator.SOAPAPIClientConfig{
		WSDLURL:  srv.URL,
		Username: "user",
		Password: "pass",
	})

	_, err := client.GetRates(context.Background(), &purolator.RatesRequest{
		SenderPostalCode: "M5V 2T6",
	})

	require.Error(t, err)

	var apiErr *purolator.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "1100002", apiErr.Code)
	assert.Equal(t, "Invalid postal code", apiErr.Description)
}
