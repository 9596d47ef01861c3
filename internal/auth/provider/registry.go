package provider

import "fmt"

// Registry indexes configured OAuth providers by name so sign-in routes
// can be parameterized. Lookup only; it performs no auth logic.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry indexes the given providers by their Name. A duplicate
// name silently replaces the earlier entry; configure each provider once.
func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider: %q is not configured", name)
	}
	return p, nil
}
