package carrier_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/orders/pkg/carrier"
)

func quote(id, carrierID string, price float64, days int) carrier.Quote {
	return carrier.Quote{
		QuoteID:     id,
		Carrier:     carrierID,
		ServiceCode: "STANDARD",
		Price:       carrier.Money{Amount: price, Currency: "CAD"},
		TransitDays: days,
	}
}

func TestSelectBest_WeightedScoring(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 50.00, 3),
		quote("q-b", "carrier-b", 40.00, 5),
		quote("q-c", "carrier-c", 45.00, 4),
	}
	reliability := map[string]float64{
		"carrier-a": 0.9,
		"carrier-b": 0.7,
		"carrier-c": 0.8,
	}
	criteria := carrier.SelectionCriteria{
		PriceWeight:       0.6,
		SpeedWeight:       0.2,
		ReliabilityWeight: 0.2,
	}

	best, err := carrier.SelectBest(quotes, reliability, criteria)

	require.NoError(t, err)
	// carrier-b is cheapest and price dominates the weights: its composite
	// is 0.6 against 0.4 for carrier-a and 0.5 for carrier-c.
	assert.Equal(t, "q-b", best.QuoteID)
}

func TestSelectBest_SpeedDominates(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 50.00, 3),
		quote("q-b", "carrier-b", 40.00, 5),
		quote("q-c", "carrier-c", 45.00, 4),
	}
	reliability := map[string]float64{
		"carrier-a": 0.9,
		"carrier-b": 0.7,
		"carrier-c": 0.8,
	}
	criteria := carrier.SelectionCriteria{
		PriceWeight:       0.1,
		SpeedWeight:       0.8,
		ReliabilityWeight: 0.1,
	}

	best, err := carrier.SelectBest(quotes, reliability, criteria)

	require.NoError(t, err)
	assert.Equal(t, "q-a", best.QuoteID, "fastest carrier should win under a speed-heavy weighting")
}

func TestSelectBest_OrderIndependent(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 50.00, 3),
		quote("q-b", "carrier-b", 40.00, 5),
		quote("q-c", "carrier-c", 45.00, 4),
		quote("q-d", "carrier-d", 42.50, 4),
	}
	reliability := map[string]float64{
		"carrier-a": 0.9,
		"carrier-b": 0.7,
		"carrier-c": 0.8,
		"carrier-d": 0.85,
	}
	criteria := carrier.SelectionCriteria{
		PriceWeight:       0.5,
		SpeedWeight:       0.3,
		ReliabilityWeight: 0.2,
	}

	first, err := carrier.SelectBest(quotes, reliability, criteria)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]carrier.Quote, len(quotes))
		copy(shuffled, quotes)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := carrier.SelectBest(shuffled, reliability, criteria)
		require.NoError(t, err)
		assert.Equal(t, first.QuoteID, got.QuoteID, "selection must not depend on input order")
	}
}

func TestSelectBest_TieBreaksOnPrice(t *testing.T) {
	// Identical transit and reliability, so composites tie except for price.
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 30.00, 3),
		quote("q-b", "carrier-b", 25.00, 3),
	}
	reliability := map[string]float64{
		"carrier-a": 0.8,
		"carrier-b": 0.8,
	}
	criteria := carrier.SelectionCriteria{
		SpeedWeight:       0.5,
		ReliabilityWeight: 0.5,
	}

	best, err := carrier.SelectBest(quotes, reliability, criteria)

	require.NoError(t, err)
	assert.Equal(t, "q-b", best.QuoteID, "cheapest quote should win the composite tie")
}

func TestSelectBest_TieBreaksOnCarrierID(t *testing.T) {
	// Fully identical offers from two carriers.
	quotes := []carrier.Quote{
		quote("q-z", "zeta-freight", 30.00, 3),
		quote("q-a", "alpha-freight", 30.00, 3),
	}
	reliability := map[string]float64{
		"zeta-freight":  0.8,
		"alpha-freight": 0.8,
	}
	criteria := carrier.SelectionCriteria{PriceWeight: 1}

	best, err := carrier.SelectBest(quotes, reliability, criteria)

	require.NoError(t, err)
	assert.Equal(t, "alpha-freight", best.Carrier)
}

func TestSelectBest_SingleQuote(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-only", "carrier-a", 99.00, 9),
	}
	criteria := carrier.SelectionCriteria{PriceWeight: 0.6, SpeedWeight: 0.2, ReliabilityWeight: 0.2}

	best, err := carrier.SelectBest(quotes, nil, criteria)

	require.NoError(t, err)
	assert.Equal(t, "q-only", best.QuoteID)
}

func TestSelectBest_EqualPrices(t *testing.T) {
	// Degenerate price range: everyone scores 1 on price, so speed decides.
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 20.00, 6),
		quote("q-b", "carrier-b", 20.00, 2),
	}
	criteria := carrier.SelectionCriteria{PriceWeight: 0.7, SpeedWeight: 0.3}

	best, err := carrier.SelectBest(quotes, nil, criteria)

	require.NoError(t, err)
	assert.Equal(t, "q-b", best.QuoteID)
}

func TestSelectBest_MissingReliabilityRatesZero(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-a", "rated", 30.00, 3),
		quote("q-b", "unrated", 30.00, 3),
	}
	reliability := map[string]float64{
		"rated": 0.95,
	}
	criteria := carrier.SelectionCriteria{ReliabilityWeight: 1}

	best, err := carrier.SelectBest(quotes, reliability, criteria)

	require.NoError(t, err)
	assert.Equal(t, "rated", best.Carrier, "a carrier absent from the ratings scores zero")
}

func TestSelectBest_EmptyQuotes(t *testing.T) {
	criteria := carrier.SelectionCriteria{PriceWeight: 1}

	_, err := carrier.SelectBest(nil, nil, criteria)

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrInvalidInput))
}

func TestSelectBest_MixedCurrencies(t *testing.T) {
	quotes := []carrier.Quote{
		quote("q-a", "carrier-a", 30.00, 3),
		{
			QuoteID:     "q-usd",
			Carrier:     "carrier-b",
			Price:       carrier.Money{Amount: 25.00, Currency: "USD"},
			TransitDays: 4,
		},
	}
	criteria := carrier.SelectionCriteria{PriceWeight: 1}

	_, err := carrier.SelectBest(quotes, nil, criteria)

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrInvalidInput))
}

func TestSelectionCriteria_Validate(t *testing.T) {
	tests := []struct {
		name     string
		criteria carrier.SelectionCriteria
		wantErr  bool
	}{
		{"balanced", carrier.SelectionCriteria{PriceWeight: 0.6, SpeedWeight: 0.2, ReliabilityWeight: 0.2}, false},
		{"single dimension", carrier.SelectionCriteria{SpeedWeight: 1}, false},
		{"unnormalized sum", carrier.SelectionCriteria{PriceWeight: 2, SpeedWeight: 3}, false},
		{"negative weight", carrier.SelectionCriteria{PriceWeight: -0.1, SpeedWeight: 1.1}, true},
		{"all zero", carrier.SelectionCriteria{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, carrier.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
