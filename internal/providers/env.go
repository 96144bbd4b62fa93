package providers

import (
	"os"
	"strings"

	"github.com/dlt-go/dlt/internal/chint"
)

// EnvProvider reads process environment variables, joining the section
// prefix and key with "__" and upper-casing the result (scenario 1 of
// spec.md §8: MYAPP__DB__HOST).
type EnvProvider struct{}

// NewEnvProvider builds an EnvProvider.
func NewEnvProvider() *EnvProvider { return &EnvProvider{} }

func (p *EnvProvider) Name() string           { return "env" }
func (p *EnvProvider) SupportsSections() bool { return true }
func (p *EnvProvider) SupportsSecrets() bool  { return true }

func (p *EnvProvider) GetValue(key string, hint chint.Hint, sections ...string) (any, string, bool) {
	effectiveKey := envKey(sections, key)
	value, ok := os.LookupEnv(effectiveKey)
	if !ok {
		return nil, effectiveKey, false
	}
	return value, effectiveKey, true
}

func envKey(sections []string, key string) string {
	parts := make([]string, 0, len(sections)+1)
	parts = append(parts, sections...)
	parts = append(parts, key)
	return strings.ToUpper(strings.Join(parts, "__"))
}
