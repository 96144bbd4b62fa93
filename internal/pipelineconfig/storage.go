package pipelineconfig

import (
	"fmt"

	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/configresolver"
	"github.com/dlt-go/dlt/internal/section"
)

// StorageConfig is the top-level pipeline settings object a run resolves
// before extraction starts: where the spool lives, the optional
// credential sub-configuration, and the ambient
// section context the resolver was run under (useful for logging which
// pipeline/sections produced a given value).
type StorageConfig struct {
	configresolver.BaseConfig
	Root        string
	Credentials *Credentials
	Ambient     section.Context
}

// NewStorageConfig builds an unresolved StorageConfig scoped to "storage".
func NewStorageConfig() *StorageConfig {
	return &StorageConfig{BaseConfig: configresolver.BaseConfig{Section: "storage"}}
}

func (c *StorageConfig) Fields() []configresolver.FieldSpec {
	return []configresolver.FieldSpec{
		{
			Key:  "ROOT",
			Hint: chint.NewScalar(false, false),
			Get:  func() any { return nilIfEmpty(c.Root) },
			Set:  func(v any) error { return setString(&c.Root, v) },
		},
		{
			Key:  "CREDENTIALS",
			Hint: chint.NewSubConfig(true, false, func() chint.Resolvable { return NewCredentials() }),
			Get: func() any {
				if c.Credentials == nil {
					return nil
				}
				return c.Credentials
			},
			Set: func(v any) error {
				creds, ok := v.(*Credentials)
				if !ok {
					return fmt.Errorf("expected *Credentials, got %T", v)
				}
				c.Credentials = creds
				return nil
			},
		},
		{
			Key:  "AMBIENT",
			Hint: chint.NewContext(),
			Get:  func() any { return nil },
			Set: func(v any) error {
				ctx, ok := v.(section.Context)
				if !ok {
					return fmt.Errorf("expected section.Context, got %T", v)
				}
				c.Ambient = ctx
				return nil
			},
		},
	}
}
