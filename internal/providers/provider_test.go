package providers_test

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

func TestEnvProviderUppercasesAndJoins(t *testing.T) {
	t.Setenv("MYAPP__DB__HOST", "db.internal")
	p := providers.NewEnvProvider()

	value, effectiveKey, found := p.GetValue("host", chint.NewScalar(false, false), "myapp", "db")
	require.True(t, found)
	assert.Equal(t, "db.internal", value)
	assert.Equal(t, "MYAPP__DB__HOST", effectiveKey)
}

func TestEnvProviderMiss(t *testing.T) {
	p := providers.NewEnvProvider()
	_, _, found := p.GetValue("nope", chint.NewScalar(true, false))
	assert.False(t, found)
}

func TestFileProviderReadsNestedKey(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("db:\n  host: file-host\n")))
	p := providers.NewFileProviderFromViper(v)

	value, _, found := p.GetValue("host", chint.NewScalar(false, false), "db")
	require.True(t, found)
	assert.Equal(t, "file-host", value)
}

func TestFileProviderDoesNotSupportSecrets(t *testing.T) {
	p := providers.NewFileProviderFromViper(viper.New())
	assert.False(t, p.SupportsSecrets())
}

func TestContextProviderReturnsAmbientContext(t *testing.T) {
	stack := section.NewStack()
	stack.Push(section.Context{PipelineName: "myapp"})
	p := providers.NewContextProvider(stack)

	value, _, found := p.GetValue("anything", chint.NewContext())
	require.True(t, found)
	assert.Equal(t, "myapp", value.(section.Context).PipelineName)
	assert.False(t, p.SupportsSections())
	assert.False(t, p.SupportsSecrets())
}

func TestRegistryHoldsProvidersInOrder(t *testing.T) {
	env := providers.NewEnvProvider()
	ctx := providers.NewContextProvider(section.NewStack())
	reg := providers.New(ctx, env)

	assert.Same(t, ctx, reg.ContextProvider)
	require.Len(t, reg.Providers, 1)
	assert.Same(t, env, reg.Providers[0])
}
