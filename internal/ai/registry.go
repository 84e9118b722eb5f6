package ai

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates a provider from configuration
type Factory func(config *ProviderConfig) (Provider, error)

// Registry maps provider types to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return NewProviderError(ErrTypeRegistration, "provider name and factory are required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return NewProviderError(ErrTypeRegistration, "provider already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create builds the provider named by config.Type
func (r *Registry) Create(config *ProviderConfig) (Provider, error) {
	if config == nil {
		return nil, NewConfigurationError("", "type", "configuration is required")
	}
	name := strings.ToLower(strings.TrimSpace(config.Type))

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, NewProviderError(ErrTypeNotFound,
			fmt.Sprintf("provider not registered (available: %s)", strings.Join(r.List(), ", ")), name)
	}
	return factory(config)
}

// IsRegistered checks if a provider is registered
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[strings.ToLower(name)]
	return exists
}

// List returns the registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
