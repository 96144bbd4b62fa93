package providers

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/dlt-go/dlt/internal/chint"
)

// FileProvider reads a YAML/TOML/JSON sections tree through viper. It
// cannot hold secrets (scenario 2 of spec.md §8: a plain file holding
// PASSWORD must never satisfy a secret-hinted field).
type FileProvider struct {
	v *viper.Viper
}

// NewFileProvider loads path (any format viper recognizes by extension)
// into a dedicated viper instance, isolated from the process-global one so
// concurrent resolutions never contend on viper's internal locks.
func NewFileProvider(path string) (*FileProvider, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return &FileProvider{v: v}, nil
}

// NewFileProviderFromViper wraps an already-configured viper instance,
// useful in tests that build config in memory with viper.SetConfigType +
// ReadConfig against a bytes.Buffer.
func NewFileProviderFromViper(v *viper.Viper) *FileProvider {
	return &FileProvider{v: v}
}

func (p *FileProvider) Name() string          { return "file" }
func (p *FileProvider) SupportsSections() bool { return true }
func (p *FileProvider) SupportsSecrets() bool  { return false }

func (p *FileProvider) GetValue(key string, hint chint.Hint, sections ...string) (any, string, bool) {
	effectiveKey := fileKey(sections, key)
	if !p.v.IsSet(effectiveKey) {
		return nil, effectiveKey, false
	}
	return p.v.Get(effectiveKey), effectiveKey, true
}

func fileKey(sections []string, key string) string {
	parts := make([]string, 0, len(sections)+1)
	parts = append(parts, sections...)
	parts = append(parts, key)
	return strings.Join(parts, ".")
}
