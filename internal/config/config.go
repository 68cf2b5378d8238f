package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds coordination-layer settings.
type Config struct {
	Filter      FilterConfig
	Diagnostics DiagnosticsConfig
}

// FilterConfig points at the lock-category filter rules file. An empty
// path means the built-in rules.
type FilterConfig struct {
	Path string
}

// DiagnosticsConfig holds logging and metrics settings.
type DiagnosticsConfig struct {
	Level   string
	Metrics bool
}

// Load reads configuration from file and env. Env var overrides use prefix
// QUIESCE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("filter.path", "")
	v.SetDefault("diagnostics.level", "warn")
	v.SetDefault("diagnostics.metrics", false)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("QUIESCE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "quiesce"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("QUIESCE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
