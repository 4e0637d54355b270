package canadapost_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/orders/pkg/carrier/canadapost"
)

const usRatesResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<price-quotes xmlns="http://www.canadapost.ca/ws/ship/rate-v4">
  <price-quote>
    <service-code>USA.XP</service-code>
    <service-link href="https://ct.soa-gw.canadapost.ca/rs/ship/service/USA.XP">
      <service-name>Xpresspost USA</service-name>
    </service-link>
    <price-details>
      <base>32.50</base>
      <taxes><gst>0</gst><pst>0</pst><hst>0</hst></taxes>
      <due>36.40</due>
      <adjustments>
        <adjustment>
          <adjustment-code>FUELSC</adjustment-code>
          <adjustment-cost>3.90</adjustment-cost>
        </adjustment>
      </adjustments>
    </price-details>
    <service-standard>
      <am-delivery>false</am-delivery>
      <guaranteed-delivery>true</guaranteed-delivery>
      <expected-transit-time>4</expected-transit-time>
      <expected-delivery-date>2026-09-04</expected-delivery-date>
    </service-standard>
  </price-quote>
</price-quotes>`

func TestHTTPAPIClient_GetRates_USDestinationSendsZipCode(t *testing.T) {
	var requestBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/vnd.cpc.ship.rate-v4+xml")
		w.Write([]byte(usRatesResponseXML))
	}))
	defer srv.Close()

	client := canadapost.NewHTTPAPIClient(canadapost.HTTPAPIClientConfig{
		BaseURL:   srv.URL,
		APIKey:    "key",
		APISecret: "secret",
		AccountID: "0001234567",
	})

	resp, err := client.GetRates(context.Background(), &canadapost.RatesRequest{
		CustomerNumber: "0001234567",
		Weight:         2.5,
		OriginPostal:   "H2Y 1C6",
		Destination: canadapost.Destination{
			International: &canadapost.InternationalDestination{
				CountryCode: "US",
				PostalCode:  "10001",
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Rates, 1)
	assert.Equal(t, "USA.XP", resp.Rates[0].ServiceCode)
	assert.InDelta(t, 3.90, resp.Rates[0].FuelSurcharge, 0.001)

	body := string(requestBody)
	assert.Contains(t, body, "<united-states>")
	assert.Contains(t, body, "<zip-code>10001</zip-code>")
	assert.NotContains(t, body, "<zip-code>US</zip-code>")
}
