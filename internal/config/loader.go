package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix prefixes every environment override, e.g. HBOND_DETECTION_PRESET.
const envPrefix = "HBOND"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)
	for _, k := range optionalKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at path, applies HBOND_* overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from defaults and HBOND_* variables only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOptional loads path when non-empty and falls back to LoadFromEnv.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}
	return Load(path)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Watch re-reads path on every change and hands valid configurations to
// onChange.  Invalid edits are reported to onError, if set, and otherwise
// ignored.  It does not block.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics; for main() only.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
