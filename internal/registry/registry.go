// Package registry provides a global registry for ad provider factories.
// Providers register themselves in init() functions, allowing the commands
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
)

// Options are handed to a provider factory.
type Options struct {
	Clock  clockwork.Clock
	Sim    config.SimConfig
	Seed   int64
	Logger *log.Logger
}

// ProviderInfo contains metadata about a registered provider.
type ProviderInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new provider instance.
type Factory func(opts Options) ads.Provider

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a provider factory to the registry.
// Typically called from a provider's init() function.
// Panics if a provider with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: provider %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f(Options{}).Name()
}

// List returns information about all registered providers, sorted by ID.
func List() []ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ProviderInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ProviderInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a provider by its ID.
// Returns an error if the provider ID is not registered.
func Create(id string, opts Options) (ads.Provider, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown provider %q", id)
	}

	return f(opts), nil
}

// Exists checks if a provider with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
