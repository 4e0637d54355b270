package carrier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultProviderTimeout bounds a single provider call when the registry is
// constructed without an explicit timeout. A hung carrier must never stall
// the whole aggregation.
const DefaultProviderTimeout = 8 * time.Second

// Registry manages registered carrier rate providers and aggregates their
// quotes. Providers are registered once at composition time; there is no
// global registry.
type Registry struct {
	providers map[string]RateProvider
	timeout   time.Duration
	logger    *otelzap.Logger
	mu        sync.RWMutex
}

// NewRegistry creates a new provider registry. The timeout applies to each
// provider call individually; zero selects DefaultProviderTimeout.
func NewRegistry(timeout time.Duration, logger *otelzap.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Registry{
		providers: make(map[string]RateProvider),
		timeout:   timeout,
		logger:    logger,
	}
}

// Register adds a provider to the registry, replacing any provider with the same name.
func (r *Registry) Register(p RateProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (RateProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, name)
}

// All returns all registered providers.
func (r *Registry) All() []RateProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]RateProvider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}

// Names returns the names of all registered providers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// CollectQuotes fetches quotes from every registered provider in parallel and
// returns the flattened successful subset. A failing or timed-out provider is
// logged and excluded; it never aborts the aggregation for the others. The
// ordering of the returned slice is unspecified. When nothing comes back the
// call fails with ErrNoQuotesAvailable. Cancelling ctx propagates to all
// in-flight provider calls.
func (r *Registry) CollectQuotes(ctx context.Context, req *ShipmentRequest) ([]Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return r.collect(ctx, req, r.All())
}

// CollectQuotesFrom fetches quotes from specific carriers only. An empty
// carriers list aggregates over every registered provider.
func (r *Registry) CollectQuotesFrom(ctx context.Context, req *ShipmentRequest, carriers []string) ([]Quote, error) {
	if len(carriers) == 0 {
		return r.CollectQuotes(ctx, req)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	providers := make([]RateProvider, 0, len(carriers))
	for _, name := range carriers {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return r.collect(ctx, req, providers)
}

func (r *Registry) collect(ctx context.Context, req *ShipmentRequest, providers []RateProvider) ([]Quote, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no providers registered", ErrNoQuotesAvailable)
	}

	var (
		mu     sync.Mutex
		quotes = make([]Quote, 0, len(providers))
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, p := range providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, r.timeout)
			defer cancel()

			got, err := p.FetchQuote(pctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				r.logger.Warn("Carrier quote failed",
					zap.String("carrier", p.Name()),
					zap.String("order_ref", req.OrderRef),
					zap.Error(err),
				)
				return nil // isolate the failure, keep the other providers going
			}
			quotes = append(quotes, got...)
			return nil
		})
	}

	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %d of %d providers failed", ErrNoQuotesAvailable, failed, len(providers))
	}
	return quotes, nil
}
