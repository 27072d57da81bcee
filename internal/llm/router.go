package llm

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var (
	ErrProviderNotFound      = errors.New("provider not found")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Router resolves generation requests to a registered provider by name
type Router struct {
	mu              sync.RWMutex
	providers       map[string]Provider
	defaultProvider string
}

// NewRouter creates a new LLM router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider adds provider, replacing any provider of the same name
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// names returns the registered names in order; callers hold the lock
func (r *Router) names() []string {
	names := lo.Keys(r.providers)
	slices.Sort(names)
	return names
}

// ListProviders returns the names of providers that have credentials
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Filter(r.names(), func(name string, _ int) bool {
		return r.providers[name].IsConfigured()
	})
}

// GetProvider returns a usable provider. An empty name selects the default.
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()

	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	case !p.IsConfigured():
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, name)
	}
	return p, nil
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo describes a registered provider for clients
type ProviderInfo struct {
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
	Default      bool     `json:"default"`
	Configured   bool     `json:"configured"`
}

// GetProvidersInfo describes every registered provider, sorted by name
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.names(), func(name string, _ int) ProviderInfo {
		p := r.providers[name]
		return ProviderInfo{
			Name:         name,
			Models:       p.AvailableModels(),
			DefaultModel: p.DefaultModel(),
			Default:      name == r.defaultProvider,
			Configured:   p.IsConfigured(),
		}
	})
}
