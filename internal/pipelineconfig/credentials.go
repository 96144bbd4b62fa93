// Package pipelineconfig holds example resolvable configuration objects
// exercising every hint shape internal/configresolver supports: scalar,
// secret, sub-configuration, and context fields.
package pipelineconfig

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dlt-go/dlt/internal/chint"
	"github.com/dlt-go/dlt/internal/configresolver"
)

// Credentials is a database credential sub-configuration. Its native
// representation is a YAML blob, the compact form an operator can paste
// into a single secret value instead of four separate keys (spec.md §6,
// "native credential representations").
type Credentials struct {
	configresolver.BaseConfig
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NewCredentials builds an unresolved Credentials scoped to section
// "credentials".
func NewCredentials() *Credentials {
	return &Credentials{BaseConfig: configresolver.BaseConfig{Section: "credentials"}}
}

func (c *Credentials) Fields() []configresolver.FieldSpec {
	return []configresolver.FieldSpec{
		{
			Key:  "HOST",
			Hint: chint.NewScalar(false, false),
			Get:  func() any { return nilIfEmpty(c.Host) },
			Set:  func(v any) error { return setString(&c.Host, v) },
		},
		{
			Key:  "PORT",
			Hint: chint.NewScalar(false, false),
			Get: func() any {
				if c.Port == 0 {
					return nil
				}
				return c.Port
			},
			Set: func(v any) error { return setInt(&c.Port, v) },
		},
		{
			Key:  "USERNAME",
			Hint: chint.NewScalar(true, false),
			Get:  func() any { return nilIfEmpty(c.Username) },
			Set:  func(v any) error { return setString(&c.Username, v) },
		},
		{
			Key:  "PASSWORD",
			Hint: chint.NewSecret(false, false),
			Get:  func() any { return nilIfEmpty(c.Password) },
			Set:  func(v any) error { return setString(&c.Password, v) },
		},
	}
}

// ParseNativeRepresentation populates every field from a YAML blob,
// satisfying spec.md §6's round-trip requirement together with
// ToNativeRepresentation.
func (c *Credentials) ParseNativeRepresentation(value string) error {
	var parsed Credentials
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return &configresolver.InvalidNativeValueError{SectionName: c.SectionName(), NativeValue: value, Err: err}
	}
	c.Host, c.Port, c.Username, c.Password = parsed.Host, parsed.Port, parsed.Username, parsed.Password
	return nil
}

// ToNativeRepresentation renders the credential back to the YAML blob
// ParseNativeRepresentation accepts.
func (c *Credentials) ToNativeRepresentation() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	*dst = s
	return nil
}

func setInt(dst *int, v any) error {
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		*dst = int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return fmt.Errorf("expected int, got string %q: %w", n, err)
		}
		*dst = parsed
	default:
		return fmt.Errorf("expected int, got %T", v)
	}
	return nil
}
