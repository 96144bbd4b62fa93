package configresolver

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/providers"
	"github.com/dlt-go/dlt/internal/section"
)

// dbConfig mirrors spec.md §8 scenario 1: a nested "db" section with a
// Host field resolvable from MYAPP__DB__HOST.
type dbConfig struct {
	BaseConfig
	Host     string
	Password string
}

func newDBConfig() *dbConfig {
	return &dbConfig{BaseConfig: BaseConfig{Section: "db"}}
}

func (c *dbConfig) Fields() []FieldSpec {
	return []FieldSpec{
		{
			Key:  "HOST",
			Hint: chint.NewScalar(false, false),
			Get:  func() any { if c.Host == "" { return nil }; return c.Host },
			Set:  func(v any) error { c.Host = v.(string); return nil },
		},
		{
			Key:  "PASSWORD",
			Hint: chint.NewSecret(false, false),
			Get:  func() any { if c.Password == "" { return nil }; return c.Password },
			Set:  func(v any) error { c.Password = v.(string); return nil },
		},
	}
}

func newRegistry(envProvider providers.Provider) (*providers.Registry, *section.Stack) {
	stack := section.NewStack()
	ctx := providers.NewContextProvider(stack)
	return providers.New(ctx, envProvider), stack
}

func TestResolveEnvCascade(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "db.internal")
	t.Setenv("MYAPP__DB__PASSWORD", "s3cr3t")

	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := newDBConfig()
	err := r.Resolve(cfg, Options{})

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "s3cr3t", cfg.Password)
	assert.True(t, cfg.IsResolved())
}

func TestResolveMissingFieldReportsTrace(t *testing.T) {
	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := newDBConfig()
	err := r.Resolve(cfg, Options{})

	require.Error(t, err)
	var missingErr *ConfigFieldMissingError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.MissingFields(), "HOST")
	assert.False(t, cfg.IsResolved())
}

func TestResolveAcceptPartial(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "db.internal")

	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := newDBConfig()
	err := r.Resolve(cfg, Options{AcceptPartial: true})

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Empty(t, cfg.Password)
	assert.False(t, cfg.IsResolved())
}

func TestResolveSecretFromFileProviderRejected(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("db:\n  password: leaked\n")))
	fp := providers.NewFileProviderFromViper(v)

	registry, stack := newRegistry(fp)
	r := New(registry, stack)

	cfg := &dbConfig{BaseConfig: BaseConfig{Section: "db"}, Host: "preset"}
	err := r.Resolve(cfg, Options{})

	require.Error(t, err)
	var notSecretErr *ValueNotSecretError
	require.ErrorAs(t, err, &notSecretErr)
	assert.Equal(t, "file", notSecretErr.ProviderName)
}

func TestResolvePrefersPipelineQualifiedHitOverEarlierProviderFallback(t *testing.T) {
	// providerA only has a pipeline-less fallback; providerB has a more
	// specific, pipeline-qualified hit. Every provider's pipeline-qualified
	// prefixes must be exhausted before any provider's pipeline-less
	// fallback is tried, so providerB's value wins even though it is
	// registered second.
	vA := viper.New()
	vA.SetConfigType("yaml")
	require.NoError(t, vA.ReadConfig(strings.NewReader("db:\n  host: less-specific\n")))
	providerA := providers.NewFileProviderFromViper(vA)

	vB := viper.New()
	vB.SetConfigType("yaml")
	require.NoError(t, vB.ReadConfig(strings.NewReader("myapp:\n  db:\n    host: more-specific\n")))
	providerB := providers.NewFileProviderFromViper(vB)

	stack := section.NewStack()
	ctx := providers.NewContextProvider(stack)
	registry := providers.New(ctx, providerA, providerB)
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := &dbConfig{BaseConfig: BaseConfig{Section: "db"}, Password: "preset"}
	require.NoError(t, r.Resolve(cfg, Options{}))

	assert.Equal(t, "more-specific", cfg.Host)
}

func TestResolveProbesEvenWhenDefaultAlreadySet(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "from-env")

	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := &dbConfig{BaseConfig: BaseConfig{Section: "db"}, Host: "preset", Password: "s3cr3t"}
	require.NoError(t, r.Resolve(cfg, Options{}))

	assert.Equal(t, "from-env", cfg.Host)
}

func TestResolveFirstTimeFinalFieldChangeRaises(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "from-env")

	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})

	r := New(registry, stack)
	cfg := newDBConfig()
	finalField := FieldSpec{
		Key:  "HOST",
		Hint: chint.NewScalar(false, true),
		Get:  func() any { return nilIfEmptyString(cfg.Host) },
		Set:  func(v any) error { cfg.Host = v.(string); return nil },
	}
	_, _, err := r.resolveConfigField(cfg, finalField, "db", nil, nil, false)
	require.Error(t, err)
	var finalErr *FinalConfigFieldError
	require.ErrorAs(t, err, &finalErr)
	assert.Empty(t, cfg.Host)
}

func nilIfEmptyString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func TestFinalFieldNotReResolved(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "first")
	t.Setenv("MYAPP__DB__PASSWORD", "s3cr3t")

	registry, stack := newRegistry(providers.NewEnvProvider())
	stack.Push(section.Context{PipelineName: "myapp"})
	r := New(registry, stack)

	cfg := newDBConfig()
	require.NoError(t, r.Resolve(cfg, Options{}))
	assert.Equal(t, "first", cfg.Host)

	t.Setenv("MYAPP__DB__HOST", "second")
	finalField := FieldSpec{
		Key:  "HOST",
		Hint: chint.NewScalar(false, true),
		Get:  func() any { return cfg.Host },
		Set:  func(v any) error { cfg.Host = v.(string); return nil },
	}
	_, _, err := r.resolveConfigField(cfg, finalField, "db", nil, nil, false)
	require.Error(t, err)
	var finalErr *FinalConfigFieldError
	require.ErrorAs(t, err, &finalErr)
	assert.Equal(t, "first", cfg.Host)
}
