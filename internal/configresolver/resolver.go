package configresolver

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/metrics"
	"github.com/dlt-go/dlt/internal/providers"
	"github.com/dlt-go/dlt/internal/section"
)

// Resolver walks a Config's declared fields against a provider Registry,
// following the cascade described in spec.md §4.B. It is the Go rendering
// of dlt's resolve_configuration / resolve_config_fields / resolve_config_field
// / resolve_single_value chain.
type Resolver struct {
	Registry *providers.Registry
	Stack    *section.Stack

	// Metrics is optional; a nil Metrics disables instrumentation entirely.
	Metrics *metrics.Metrics
}

// New builds a Resolver over the given provider registry and ambient
// section stack, with metrics instrumentation disabled.
func New(registry *providers.Registry, stack *section.Stack) *Resolver {
	return &Resolver{Registry: registry, Stack: stack}
}

// WithMetrics attaches a metrics collector to the resolver, returning the
// same instance for chaining.
func (r *Resolver) WithMetrics(m *metrics.Metrics) *Resolver {
	r.Metrics = m
	return r
}

// Options controls one Resolve call.
type Options struct {
	// ExplicitSections, when non-empty, are used in place of the ambient
	// stack's visible sections for this call only (spec.md §8 lets callers
	// pin a section without pushing it onto the stack).
	ExplicitSections []string
	// EmbeddedSections are sections contributed by an enclosing config that
	// is itself resolving this one as a sub-configuration. Callers normally
	// leave this nil; Resolve fills it in for recursive sub-config calls.
	EmbeddedSections []string
	// AcceptPartial, when true, turns a ConfigFieldMissingError into a
	// non-fatal return (err == nil) after running OnPartial hooks, so the
	// caller can proceed with whatever fields did resolve.
	AcceptPartial bool
	// ExplicitValue is a native-representation value supplied by the caller
	// (or, for a sub-configuration, probed by the enclosing resolveSubConfig
	// call under the field's own key) in place of the normal top-level
	// provider probe. A non-nil string is handed to ParseNativeRepresentation
	// before field-by-field resolution proceeds; anything else is ignored
	// (original resolve.py: a mapping can never serve as an explicit value).
	ExplicitValue any
}

// Resolve resolves every field of cfg, recursing into embedded
// sub-configurations, and runs lifecycle hooks on success or accepted
// partial completion.
func (r *Resolver) Resolve(cfg Config, opts Options) error {
	start := time.Now()
	outcome := "failed"
	defer func() {
		if r.Metrics == nil {
			return
		}
		r.Metrics.ResolverDuration.Observe(time.Since(start).Seconds())
		r.Metrics.ResolverResolutions.WithLabelValues(outcome).Inc()
	}()

	if err := r.applyExplicitValue(cfg, opts); err != nil {
		return err
	}

	missing, err := r.resolveConfigFields(cfg, opts)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fieldErr := &ConfigFieldMissingError{SectionName: cfg.SectionName(), Traces: missing}
		if !opts.AcceptPartial {
			return fieldErr
		}
		outcome = "partial"
		for _, h := range cfg.Hooks() {
			if ph, ok := h.(PartialHook); ok {
				if err := ph.OnPartial(); err != nil {
					return err
				}
			}
		}
		if ph, ok := any(cfg).(PartialHook); ok {
			if err := ph.OnPartial(); err != nil {
				return err
			}
		}
		return nil
	}

	outcome = "resolved"
	cfg.SetResolved(true)
	for _, h := range cfg.Hooks() {
		if rh, ok := h.(ResolvedHook); ok {
			if err := rh.OnResolved(); err != nil {
				return err
			}
		}
	}
	if rh, ok := any(cfg).(ResolvedHook); ok {
		if err := rh.OnResolved(); err != nil {
			return err
		}
	}
	return nil
}

// applyExplicitValue is spec.md §4.B step 1: before any field is resolved,
// try to populate the whole config from a single native-representation
// value instead. At the top level (EmbeddedSections empty, no value passed
// in) that value comes from probing the providers once with the config's
// own section name as the key; for a sub-configuration it is whatever
// resolveSubConfig already probed under the field's own key and is passed
// through opts.ExplicitValue. A mapping-shaped result, or a config that
// does not implement NativeValueConfig, is simply not applied -- field-by-
// field resolution always follows regardless of whether this step fires
// (original resolve.py: value from a Mapping is discarded before use).
func (r *Resolver) applyExplicitValue(cfg Config, opts Options) error {
	explicitValue := opts.ExplicitValue
	if _, ok := any(cfg).(NativeValueConfig); ok && explicitValue == nil && len(opts.EmbeddedSections) == 0 && cfg.SectionName() != "" {
		v, _, err := r.resolveSingleValue(cfg.SectionName(), chint.NewSecret(true, false), "", r.explicitSections(opts), nil)
		if err != nil {
			return err
		}
		explicitValue = v
	}
	if explicitValue == nil || isMapping(explicitValue) {
		return nil
	}
	nv, ok := any(cfg).(NativeValueConfig)
	if !ok {
		return nil
	}
	s, ok := explicitValue.(string)
	if !ok {
		return nil
	}
	return nv.ParseNativeRepresentation(s)
}

func isMapping(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Map
}

// resolveConfigFields resolves every declared field and returns the trace
// set for any field that no provider could supply (empty map means every
// field resolved).
func (r *Resolver) resolveConfigFields(cfg Config, opts Options) (map[string][]providers.Trace, error) {
	missing := map[string][]providers.Trace{}
	configSection := cfg.SectionName()
	explicitSections := r.explicitSections(opts)
	embeddedSections := opts.EmbeddedSections

	for _, field := range cfg.Fields() {
		found, traces, err := r.resolveConfigField(cfg, field, configSection, explicitSections, embeddedSections, opts.AcceptPartial)
		if err != nil {
			return nil, err
		}
		if !found && !field.Hint.Optional() {
			missing[field.Key] = traces
		}
	}
	return missing, nil
}

func (r *Resolver) explicitSections(opts Options) []string {
	if len(opts.ExplicitSections) > 0 {
		return opts.ExplicitSections
	}
	return r.Stack.Current().Visible()
}

// resolveConfigField resolves a single field, recursing for sub-
// configuration hints and consulting the context provider exclusively for
// context hints, per spec.md §4.B.
func (r *Resolver) resolveConfigField(
	cfg Config,
	field FieldSpec,
	configSection string,
	explicitSections, embeddedSections []string,
	acceptPartial bool,
) (found bool, traces []providers.Trace, err error) {
	switch h := field.Hint.(type) {
	case chint.Context:
		value, _, ok := r.Registry.ContextProvider.GetValue(field.Key, h)
		if ok {
			if err := field.Set(value); err != nil {
				return false, nil, err
			}
		}
		return ok, nil, nil

	case chint.SubConfig:
		return r.resolveSubConfig(field, []func() chint.Resolvable{h.New}, configSection, explicitSections, embeddedSections, acceptPartial)

	case chint.UnionSubConfig:
		factories := make([]func() chint.Resolvable, 0, len(h.Alternatives))
		factories = append(factories, h.Alternatives...)
		return r.resolveSubConfig(field, factories, configSection, explicitSections, embeddedSections, acceptPartial)
	}

	// A pre-set struct default is only ever a fallback, never a reason to
	// skip probing: providers always get a chance to supply (or override)
	// the value (original resolve.py: "return default_value if value is
	// None else value"). A final field is the one case where a provider
	// supplying something different than the default is an error, and that
	// check applies on every resolve, not only a second one (resolve.py:
	// "if default_value != current_value: if is_final_type(hint): raise").
	defaultValue := field.Get()
	value, traces, err := r.resolveSingleValue(field.Key, field.Hint, configSection, explicitSections, embeddedSections)
	if err != nil {
		return false, traces, err
	}

	current := value
	if current == nil {
		current = defaultValue
	}
	if field.Hint.Final() && !reflect.DeepEqual(defaultValue, current) {
		return false, traces, &FinalConfigFieldError{SectionName: configSection, Key: field.Key}
	}

	if value == nil {
		return defaultValue != nil, traces, nil
	}
	if err := field.Set(value); err != nil {
		return false, traces, &ConfigurationWrongTypeError{SectionName: configSection, Key: field.Key, WantType: fmt.Sprintf("%T", field.Get()), Err: err}
	}
	return true, traces, nil
}

func (r *Resolver) resolveSubConfig(
	field FieldSpec,
	factories []func() chint.Resolvable,
	configSection string,
	explicitSections, embeddedSections []string,
	acceptPartial bool,
) (found bool, traces []providers.Trace, err error) {
	embedded := append(append([]string{}, embeddedSections...), field.Key)

	// Probe once, under this field's own key in the parent's own section
	// context, for a compact native value -- spec.md §4.B: "compute its
	// initial key... probe for a native value, and recurse with that as
	// explicit_value". The first alternative decides whether the probe is
	// secret-shaped; union sub-configs in this codebase never mix a
	// credential-like alternative with a plain one.
	initialHint := chint.Hint(chint.NewScalar(true, false))
	if len(factories) > 0 {
		if _, ok := factories[0]().(NativeValueConfig); ok {
			initialHint = chint.NewSecret(true, false)
		}
	}
	initialValue, initialTraces, err := r.resolveSingleValue(field.Key, initialHint, configSection, explicitSections, embeddedSections)
	if err != nil {
		return false, nil, err
	}
	traces = append(traces, initialTraces...)
	if isMapping(initialValue) {
		initialValue = nil
	}

	var lastErr error
	for _, factory := range factories {
		instance := factory()
		sub, ok := instance.(Config)
		if !ok {
			lastErr = fmt.Errorf("sub-configuration for field %s.%s does not implement configresolver.Config", configSection, field.Key)
			continue
		}
		subErr := r.Resolve(sub, Options{EmbeddedSections: embedded, ExplicitSections: explicitSections, AcceptPartial: acceptPartial, ExplicitValue: initialValue})
		if subErr != nil {
			lastErr = subErr
			continue
		}
		if err := field.Set(sub); err != nil {
			return false, traces, err
		}
		return true, traces, nil
	}
	if lastErr != nil && !acceptPartial {
		return false, traces, lastErr
	}
	return false, traces, nil
}

// resolveSingleValue walks the whole provider stack once with the pipeline
// name in effect, and only if nothing is found there walks it again without
// the pipeline name, per spec.md §4.B: "If pipeline_name is present, do one
// full walk with it first, then without it." The pipeline-included/excluded
// split is the outer loop across every provider, not an inner loop within
// one provider, so a more pipeline-specific hit from a later provider is
// always preferred over an earlier provider's pipeline-less fallback
// (original resolve.py: resolve_single_value / look_sections).
func (r *Resolver) resolveSingleValue(
	key string,
	hint chint.Hint,
	configSection string,
	explicitSections, embeddedSections []string,
) (value any, traces []providers.Trace, err error) {
	pipelineName := r.Stack.Current().PipelineName
	sections := append(append([]string{}, explicitSections...), embeddedSections...)
	qualified, bare := splitPrefixesByPipeline(SectionPrefixes(pipelineName, sections, configSection), pipelineName)

	if pipelineName != "" {
		v, t, found, err := r.probeProviders(key, hint, configSection, qualified, true)
		traces = append(traces, t...)
		if err != nil {
			return nil, traces, err
		}
		if found {
			return v, traces, nil
		}
	}

	v, t, found, err := r.probeProviders(key, hint, configSection, bare, false)
	traces = append(traces, t...)
	if err != nil {
		return nil, traces, err
	}
	if found {
		return v, traces, nil
	}
	return nil, traces, nil
}

// splitPrefixesByPipeline partitions prefixes (in their original relative
// order) into those that start with pipelineName and those that don't. With
// no pipeline name every prefix is pipeline-less by definition.
func splitPrefixesByPipeline(prefixes [][]string, pipelineName string) (qualified, bare [][]string) {
	if pipelineName == "" {
		return nil, prefixes
	}
	for _, p := range prefixes {
		if len(p) > 0 && p[0] == pipelineName {
			qualified = append(qualified, p)
		} else {
			bare = append(bare, p)
		}
	}
	return qualified, bare
}

// probeProviders walks every provider in registry order trying each of
// prefixes in turn, stopping at the first found value. A provider that does
// not support sections at all is probed with no sections exactly once, and
// only on the pipeline-less pass, matching resolve_single_provider_value's
// "if pipeline_name and not provider.supports_sections: continue".
func (r *Resolver) probeProviders(
	key string,
	hint chint.Hint,
	configSection string,
	prefixes [][]string,
	pipelineQualifiedPass bool,
) (value any, traces []providers.Trace, found bool, err error) {
	for _, provider := range r.Registry.Providers {
		if !provider.SupportsSections() {
			if pipelineQualifiedPass {
				continue
			}
			v, effectiveKey, ok := provider.GetValue(key, hint)
			t, terr := r.traceAndGate(provider, hint, configSection, key, effectiveKey, nil, v, ok)
			if terr != nil {
				return nil, traces, false, terr
			}
			if t != nil {
				traces = append(traces, *t)
			}
			if ok {
				return v, traces, true, nil
			}
			continue
		}

		for _, prefix := range prefixes {
			v, effectiveKey, ok := provider.GetValue(key, hint, prefix...)
			t, terr := r.traceAndGate(provider, hint, configSection, key, effectiveKey, prefix, v, ok)
			if terr != nil {
				return nil, traces, false, terr
			}
			if t != nil {
				traces = append(traces, *t)
			}
			if ok {
				return v, traces, true, nil
			}
		}
	}
	return nil, traces, false, nil
}

func (r *Resolver) traceAndGate(
	provider providers.Provider,
	hint chint.Hint,
	configSection, key, effectiveKey string,
	sectionsTried []string,
	value any,
	found bool,
) (*providers.Trace, error) {
	if r.Metrics != nil {
		r.Metrics.ProviderProbes.WithLabelValues(provider.Name(), strconv.FormatBool(found)).Inc()
	}
	if found && hint.Secret() && !provider.SupportsSecrets() {
		return nil, &ValueNotSecretError{ProviderName: provider.Name(), SectionName: configSection, Key: key}
	}
	t := providers.Trace{
		ProviderName:  provider.Name(),
		SectionsTried: sectionsTried,
		EffectiveKey:  effectiveKey,
		Value:         value,
		Found:         found,
	}
	return &t, nil
}
