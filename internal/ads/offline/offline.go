// Package offline implements an ad network that never fills, for playing
// without ads or exercising the no-fill paths.
package offline

import (
	"context"
	"sync"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

// ID is the registry name of the offline network.
const ID = "offline"

func init() {
	registry.Register(ID, func(registry.Options) ads.Provider { return New() })
}

// Provider initializes instantly and answers every request with no fill.
type Provider struct {
	mu          sync.Mutex
	initialized bool
	requests    int
}

// New creates an offline provider.
func New() *Provider { return &Provider{} }

// Name implements ads.Provider.
func (p *Provider) Name() string { return "Offline (no fill)" }

// Initialize implements ads.Provider.
func (p *Provider) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.initialized = true
	p.mu.Unlock()
	return nil
}

// Load implements ads.Provider.
func (p *Provider) Load(ctx context.Context, _ string, _ ads.Request) (ads.Ad, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.requests++
	p.mu.Unlock()
	return nil, ads.ErrNoFill
}

// Inspect implements ads.Inspector.
func (p *Provider) Inspect(context.Context) (ads.Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ads.Report{
		Provider:    p.Name(),
		Initialized: p.initialized,
		Requests:    p.requests,
		NoFills:     p.requests,
	}, nil
}
