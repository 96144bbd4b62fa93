package chint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dlt-go/dlt/internal/chint"
)

func TestScalarDefaults(t *testing.T) {
	h := chint.NewScalar(true, false)
	assert.True(t, h.Optional())
	assert.False(t, h.Final())
	assert.False(t, h.Secret())
}

func TestSecretIsSecret(t *testing.T) {
	h := chint.NewSecret(false, true)
	assert.False(t, h.Optional())
	assert.True(t, h.Final())
	assert.True(t, h.Secret())
}

func TestContextHintAlwaysOptionalNeverFinal(t *testing.T) {
	h := chint.NewContext()
	assert.True(t, h.Optional())
	assert.False(t, h.Final())
}

type stubConfig struct{ section string }

func (s stubConfig) SectionName() string { return s.section }
func (s stubConfig) IsResolved() bool    { return false }

func TestSubConfigFactory(t *testing.T) {
	h := chint.NewSubConfig(false, false, func() chint.Resolvable {
		return stubConfig{section: "nested"}
	})
	instance := h.New()
	assert.Equal(t, "nested", instance.SectionName())
}

func TestUnionSubConfigAlternatives(t *testing.T) {
	h := chint.NewUnionSubConfig(true, false, []func() chint.Resolvable{
		func() chint.Resolvable { return stubConfig{section: "a"} },
		func() chint.Resolvable { return stubConfig{section: "b"} },
	})
	assert.Len(t, h.Alternatives, 2)
	assert.Equal(t, "b", h.Alternatives[1]().SectionName())
}
