package configresolver

import (
	"github.com/dlt-go/dlt/internal/chint"
)

// FieldSpec declares one resolvable field of a Config: its key, the hint
// describing how providers should treat it, and accessors the resolver uses
// to read the field's current (default/explicit) value and write a resolved
// one back. Concrete Config implementations build their Fields() slice by
// hand, the same way the teacher's services hand-declare env bindings
// instead of relying on struct-tag reflection.
type FieldSpec struct {
	Key  string
	Hint chint.Hint

	// Get returns the field's current value (including one the caller set
	// before calling Resolve). Providers are always probed first; this value
	// is only the fallback when none supplies one, and the value a final
	// field is compared against.
	Get func() any

	// Set assigns a resolved value back onto the field. It is responsible
	// for any type assertion/conversion and must return
	// *ConfigurationWrongTypeError (or wrap one) on mismatch.
	Set func(value any) error
}

// ResolvedHook is implemented by a Config (or one of its composed Hooks)
// that wants to run logic immediately after every field resolved
// successfully, mirroring dlt's on_resolved lifecycle method.
type ResolvedHook interface {
	OnResolved() error
}

// PartialHook is implemented by a Config (or one of its composed Hooks)
// that wants to run logic when resolution completed with fields missing but
// the caller asked AcceptPartial: true, mirroring dlt's on_partial.
type PartialHook interface {
	OnPartial() error
}

// Config is the contract a resolvable settings object must satisfy.
// Sub-configurations reachable through chint.SubConfig/UnionSubConfig hints
// must also satisfy chint.Resolvable (SectionName/IsResolved), which Config
// embeds.
type Config interface {
	chint.Resolvable
	SetResolved(bool)

	// Fields lists every resolvable field in declaration order. Order
	// matters: it is the order fields are attempted and so the order partial
	// failures accumulate in ConfigFieldMissingError.
	Fields() []FieldSpec

	// Hooks returns, most-derived-first, every lifecycle hook object
	// composed into this config. A plain struct with no lifecycle behavior
	// returns nil. This replaces the method-resolution-order lookup dlt's
	// Python base classes get for free: Go has no implicit MRO, so the
	// config author lists its hook-bearing pieces explicitly.
	Hooks() []any
}

// NativeValueConfig is implemented by configs that accept a single native
// string representation in place of (or in addition to) per-field
// resolution -- e.g. a connection-string credential. ParseNativeRepresentation
// populates fields from value; ToNativeRepresentation renders the reverse
// for round-trip. Either may be unimplemented (return nil, "" or an error)
// by configs that have no compact native form.
type NativeValueConfig interface {
	Config
	ParseNativeRepresentation(value string) error
	ToNativeRepresentation() (string, error)
}

// BaseConfig is an embeddable helper that satisfies the SectionName/
// IsResolved/SetResolved part of Config, so concrete configs only need to
// implement Fields() (and optionally Hooks()).
type BaseConfig struct {
	Section  string `yaml:"-"`
	resolved bool
}

func (b *BaseConfig) SectionName() string { return b.Section }
func (b *BaseConfig) IsResolved() bool    { return b.resolved }
func (b *BaseConfig) SetResolved(v bool)  { b.resolved = v }
func (b *BaseConfig) Hooks() []any        { return nil }
