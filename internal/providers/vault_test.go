package providers_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/providers"
)

func newTestVaultProvider(t *testing.T) (*providers.VaultProvider, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return providers.NewVaultProvider(client), mr
}

func TestVaultProviderFound(t *testing.T) {
	p, mr := newTestVaultProvider(t)
	require.NoError(t, mr.Set("vault:myapp:db:API_KEY", "sekret"))

	value, effectiveKey, found := p.GetValue("API_KEY", chint.NewSecret(false, false), "myapp", "db")
	require.True(t, found)
	assert.Equal(t, "sekret", value)
	assert.Equal(t, "vault:myapp:db:API_KEY", effectiveKey)
}

func TestVaultProviderMiss(t *testing.T) {
	p, _ := newTestVaultProvider(t)
	_, _, found := p.GetValue("API_KEY", chint.NewSecret(true, false))
	assert.False(t, found)
}

func TestVaultProviderSupportsSecretsAndSections(t *testing.T) {
	p, _ := newTestVaultProvider(t)
	assert.True(t, p.SupportsSecrets())
	assert.True(t, p.SupportsSections())
}
