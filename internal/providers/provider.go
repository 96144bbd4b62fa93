// Package providers implements the Provider Registry (spec.md §4.A): an
// ordered stack of configuration providers plus a distinguished context
// provider, each probed by the resolver with progressively shorter section
// prefixes.
package providers

import "github.com/dlt-go/dlt/internal/chint"

// Provider is a single configuration backend. Providers are immutable for
// the lifetime of a resolution call; the resolver never mutates them.
type Provider interface {
	// Name is reported in lookup traces.
	Name() string
	// SupportsSections reports whether this provider understands a section
	// prefix at all; providers that don't (e.g. plain process environment
	// without a namespacing convention) are only probed with an empty
	// section list.
	SupportsSections() bool
	// SupportsSecrets reports whether this provider may hold secret values.
	// The resolver still probes the backend for a secret-hinted field even
	// when this is false, so it can raise a ValueNotSecretError naming
	// exactly where the misplaced value lives rather than silently skipping
	// it.
	SupportsSecrets() bool
	// GetValue probes the provider for key under the given section path.
	// effectiveKey is the composite key the provider actually used (for
	// example an upper-cased, underscore-joined environment variable name)
	// and is always returned even when found is false, so trace records
	// stay meaningful for debugging a miss.
	GetValue(key string, hint chint.Hint, sections ...string) (value any, effectiveKey string, found bool)
}

// Trace is an immutable record of a single provider probe.
type Trace struct {
	ProviderName string
	SectionsTried []string
	EffectiveKey string
	Value        any
	Found        bool
}

// Registry is the ordered provider stack plus the distinguished context
// provider consulted for chint.Context fields.
type Registry struct {
	Providers      []Provider
	ContextProvider Provider
}

// New builds a registry over providers in probe order, with ctxProvider set
// aside for chint.Context fields.
func New(ctxProvider Provider, providers ...Provider) *Registry {
	return &Registry{Providers: providers, ContextProvider: ctxProvider}
}
