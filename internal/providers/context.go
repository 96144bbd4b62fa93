package providers

import (
	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/section"
)

// ContextProvider is the distinguished provider consulted exclusively for
// chint.Context fields (spec.md §4.B, "If the inner hint is a context type,
// consult the context provider exclusively and return"). It never touches
// disk, env, or network: it simply hands back the ambient section.Context
// in scope for this resolution call.
type ContextProvider struct {
	stack *section.Stack
}

// NewContextProvider builds a ContextProvider over the given section stack.
func NewContextProvider(stack *section.Stack) *ContextProvider {
	return &ContextProvider{stack: stack}
}

func (p *ContextProvider) Name() string          { return "context" }
func (p *ContextProvider) SupportsSections() bool { return false }
func (p *ContextProvider) SupportsSecrets() bool  { return false }

// GetValue ignores key and sections: a context field resolves to the whole
// ambient context object, always present (possibly zero-valued).
func (p *ContextProvider) GetValue(key string, hint chint.Hint, sections ...string) (any, string, bool) {
	return p.stack.Current(), key, true
}
