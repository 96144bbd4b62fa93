package configresolver

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/dlt-go/dlt/internal/providers"
)

// ConfigurationWrongTypeError is raised when a resolved value cannot be
// converted into the field's declared Go type.
type ConfigurationWrongTypeError struct {
	SectionName string
	Key         string
	WantType    string
	Err         error
}

func (e *ConfigurationWrongTypeError) Error() string {
	return fmt.Sprintf("field %s.%s: cannot convert resolved value to %s: %v", e.SectionName, e.Key, e.WantType, e.Err)
}

func (e *ConfigurationWrongTypeError) Unwrap() error { return e.Err }

// InvalidNativeValueError is raised when ParseNativeRepresentation rejects
// the string handed to it (e.g. a malformed credentials blob).
type InvalidNativeValueError struct {
	SectionName string
	NativeValue string
	Err         error
}

func (e *InvalidNativeValueError) Error() string {
	return fmt.Sprintf("section %s: native representation %q is invalid: %v", e.SectionName, e.NativeValue, e.Err)
}

func (e *InvalidNativeValueError) Unwrap() error { return e.Err }

// ConfigFieldMissingError is raised when one or more required fields could
// not be resolved by any provider. It carries the full lookup trace for
// every missing field, so the caller can print exactly where each provider
// was asked and what it returned.
type ConfigFieldMissingError struct {
	SectionName string
	Traces      map[string][]providers.Trace
}

// Error aggregates one trace-bearing sub-error per missing field via
// multierr, rather than stopping at the first, so the message always lists
// every field that failed and every provider/key combination tried for it.
func (e *ConfigFieldMissingError) Error() string {
	var combined error
	for _, field := range e.MissingFields() {
		combined = multierr.Append(combined, fmt.Errorf("%s%s", field, traceSuffix(e.Traces[field])))
	}
	return fmt.Sprintf("configuration for %s is missing required fields: %v", e.SectionName, combined)
}

func traceSuffix(traces []providers.Trace) string {
	s := " (tried"
	for _, t := range traces {
		s += fmt.Sprintf(" %s[%s]", t.ProviderName, t.EffectiveKey)
	}
	return s + ")"
}

// MissingFields returns the alphabetically sorted set of field names that
// could not be resolved.
func (e *ConfigFieldMissingError) MissingFields() []string {
	out := make([]string, 0, len(e.Traces))
	for field := range e.Traces {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// ValueNotSecretError is raised when a provider that cannot hold secrets
// (FileProvider, ContextProvider) nonetheless has a value sitting at the key
// a secret-hinted field resolves to (spec.md §8 scenario 2).
type ValueNotSecretError struct {
	ProviderName string
	SectionName  string
	Key          string
}

func (e *ValueNotSecretError) Error() string {
	return fmt.Sprintf("provider %q cannot supply secret value for %s.%s: move it to a provider that supports secrets", e.ProviderName, e.SectionName, e.Key)
}

// FinalConfigFieldError is raised whenever a field marked final would be set
// to a value other than its pre-resolve default, whether that happens on the
// very first Resolve call or a later one.
type FinalConfigFieldError struct {
	SectionName string
	Key         string
}

func (e *FinalConfigFieldError) Error() string {
	return fmt.Sprintf("field %s.%s is final and cannot be re-resolved", e.SectionName, e.Key)
}

// ConfigFieldFrozenError reports a config field that a prior resolution
// froze against further change. It is unrelated to the contract engine's
// FrozenError (internal/contract); no code path in this package returns it.
type ConfigFieldFrozenError struct {
	SectionName string
	Key         string
}

func (e *ConfigFieldFrozenError) Error() string {
	return fmt.Sprintf("field %s.%s is frozen by a prior resolution and cannot change", e.SectionName, e.Key)
}
