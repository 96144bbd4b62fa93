// Package hostconfig loads the dlt process's own runtime configuration
// (log level, storage root, registry path) -- distinct from the typed
// pipeline configuration objects internal/configresolver resolves, which
// describe the *ingested* pipeline's settings, not this binary's.
package hostconfig

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the host process configuration: where to log, where the
// extraction spool and its ledger live, and the default pipeline name used
// when none is given on the command line.
type Config struct {
	LogLevel            string `mapstructure:"log_level"`
	LogFormat           string `mapstructure:"log_format"`
	StorageRoot         string `mapstructure:"storage_root"`
	ExtractLedgerPath   string `mapstructure:"extract_ledger_path"`
	DefaultPipelineName string `mapstructure:"default_pipeline_name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("storage_root", "./.dlt-storage")
	v.SetDefault("extract_ledger_path", "./.dlt-storage/extracts.db")
	v.SetDefault("default_pipeline_name", "dlt")
}

// Load reads configFile (if non-empty) overlaid with DLT_-prefixed
// environment variables, falling back to defaults for anything unset.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DLT")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("hostconfig: reading %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("hostconfig: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects a host configuration with an empty storage root, the
// one setting every subcommand depends on.
func (c *Config) Validate() error {
	if c.StorageRoot == "" {
		return fmt.Errorf("hostconfig: storage_root must not be empty")
	}
	return nil
}
