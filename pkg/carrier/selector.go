package carrier

import (
	"fmt"
)

// SelectionCriteria holds the non-negative weights applied to the normalized
// price, speed, and reliability sub-scores. Weights conventionally sum to 1.0
// but any positive sum is accepted. Callers choose the tuple per business
// rule; expedited orders typically weight speed higher.
type SelectionCriteria struct {
	PriceWeight       float64
	SpeedWeight       float64
	ReliabilityWeight float64
}

// Validate rejects negative weights and weight tuples with a non-positive sum.
func (c SelectionCriteria) Validate() error {
	if c.PriceWeight < 0 || c.SpeedWeight < 0 || c.ReliabilityWeight < 0 {
		return fmt.Errorf("%w: selection weights must be non-negative", ErrInvalidInput)
	}
	if c.PriceWeight+c.SpeedWeight+c.ReliabilityWeight <= 0 {
		return fmt.Errorf("%w: selection weights must sum to a positive number", ErrInvalidInput)
	}
	return nil
}

// quoteScore carries the per-quote sub-scores and composite for one candidate.
type quoteScore struct {
	quote     *Quote
	composite float64
}

// SelectBest ranks the candidate quotes under the given criteria and returns
// the top one. The function is pure: no I/O, no clock, and the result depends
// only on its inputs, never on iteration order.
//
// Sub-scores are min/max-normalized across the candidate set: the cheapest
// quote gets price score 1, the fastest gets speed score 1, and the carrier
// with the highest reliability rating gets reliability score 1. When every
// candidate shares the same value for a dimension, all score 1 on it. The
// composite is the weighted sum of the three sub-scores. Ties on composite
// score break deterministically: lower price, then fewer delivery days, then
// lexicographically smallest carrier identifier, then smallest quote ID.
//
// reliability maps carrier identifiers to a stable, externally supplied
// figure such as a historical on-time rate; carriers absent from the map
// rate 0. All quotes must share one currency: mixed currencies are a
// precondition violation reported as ErrInvalidInput.
func SelectBest(quotes []Quote, reliability map[string]float64, criteria SelectionCriteria) (*Quote, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: empty quote list", ErrInvalidInput)
	}

	currency := quotes[0].Price.Currency
	for i := range quotes {
		if quotes[i].Price.Currency != currency {
			return nil, fmt.Errorf("%w: mixed currencies %q and %q", ErrInvalidInput, currency, quotes[i].Price.Currency)
		}
	}

	minPrice, maxPrice := quotes[0].Price.Amount, quotes[0].Price.Amount
	minDays, maxDays := quotes[0].TransitDays, quotes[0].TransitDays
	minRel, maxRel := reliability[quotes[0].Carrier], reliability[quotes[0].Carrier]
	for i := range quotes[1:] {
		q := &quotes[i+1]
		minPrice = min(minPrice, q.Price.Amount)
		maxPrice = max(maxPrice, q.Price.Amount)
		minDays = min(minDays, q.TransitDays)
		maxDays = max(maxDays, q.TransitDays)
		minRel = min(minRel, reliability[q.Carrier])
		maxRel = max(maxRel, reliability[q.Carrier])
	}

	best := quoteScore{}
	for i := range quotes {
		q := &quotes[i]
		priceScore := normalizeInverted(q.Price.Amount, minPrice, maxPrice)
		speedScore := normalizeInverted(float64(q.TransitDays), float64(minDays), float64(maxDays))
		relScore := normalize(reliability[q.Carrier], minRel, maxRel)

		candidate := quoteScore{
			quote: q,
			composite: criteria.PriceWeight*priceScore +
				criteria.SpeedWeight*speedScore +
				criteria.ReliabilityWeight*relScore,
		}
		if best.quote == nil || candidate.beats(best) {
			best = candidate
		}
	}

	return best.quote, nil
}

// beats reports whether s ranks strictly ahead of other: highest composite
// first, ties broken by lower price, fewer transit days, smaller carrier
// identifier, then smaller quote ID.
func (s quoteScore) beats(other quoteScore) bool {
	if s.composite != other.composite {
		return s.composite > other.composite
	}
	if s.quote.Price.Amount != other.quote.Price.Amount {
		return s.quote.Price.Amount < other.quote.Price.Amount
	}
	if s.quote.TransitDays != other.quote.TransitDays {
		return s.quote.TransitDays < other.quote.TransitDays
	}
	if s.quote.Carrier != other.quote.Carrier {
		return s.quote.Carrier < other.quote.Carrier
	}
	return s.quote.QuoteID < other.quote.QuoteID
}

// normalizeInverted maps v into [0,1] with the minimum scoring 1 (cheapest
// price, fewest days). A degenerate range scores 1 for every candidate.
func normalizeInverted(v, lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return 1 - (v-lo)/(hi-lo)
}

// normalize maps v into [0,1] with the maximum scoring 1 (most reliable).
// A degenerate range scores 1 for every candidate.
func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return (v - lo) / (hi - lo)
}
