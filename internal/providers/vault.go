package providers

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dlt-go/dlt/internal/chint"
)

// VaultProvider is a network-backed secret store, the "vault-style
// provider" named in spec.md §5 whose get_value call may block on the
// network. It is backed here by Redis, with each key stored under a
// "vault:" namespace so a shared Redis instance can host it alongside other
// data without collision.
//
// get_value itself is not cancellable mid-call (spec.md §5); the bounded
// backoff below only retries the call as a whole on transient connection
// errors, it never interrupts an in-flight request.
type VaultProvider struct {
	client     *redis.Client
	maxElapsed time.Duration
}

// NewVaultProvider builds a VaultProvider over an existing Redis client.
func NewVaultProvider(client *redis.Client) *VaultProvider {
	return &VaultProvider{client: client, maxElapsed: 2 * time.Second}
}

func (p *VaultProvider) Name() string          { return "vault" }
func (p *VaultProvider) SupportsSections() bool { return true }
func (p *VaultProvider) SupportsSecrets() bool  { return true }

func (p *VaultProvider) GetValue(key string, hint chint.Hint, sections ...string) (any, string, bool) {
	effectiveKey := vaultKey(sections, key)

	var value string
	var found bool
	op := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		v, err := p.client.Get(ctx, effectiveKey).Result()
		if err == redis.Nil {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		value, found = v, true
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = p.maxElapsed
	// Transient connection errors are retried; a clean miss (redis.Nil)
	// resolves op without error and stops the retry immediately.
	_ = backoff.Retry(op, bo)

	if !found {
		return nil, effectiveKey, false
	}
	return value, effectiveKey, true
}

func vaultKey(sections []string, key string) string {
	parts := append([]string{"vault"}, sections...)
	parts = append(parts, key)
	return strings.Join(parts, ":")
}
