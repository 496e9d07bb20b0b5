package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/zipfit/core/fit"
	"github.com/kilianp07/zipfit/core/metrics"
	"github.com/kilianp07/zipfit/infra/platform"
)

// LoadConfig names one load to fit and its base quantities.
type LoadConfig struct {
	ID string `json:"id"`
	// NominalVoltage is V_n in volts.
	NominalVoltage float64 `json:"nominal_voltage"`
	// NominalPower is S_n in volt-amperes. Zero means estimate it from
	// each batch.
	NominalPower float64 `json:"nominal_power"`
}

// Config is the root service configuration.
type Config struct {
	Platform platform.Config `json:"platform"`
	Fit      fit.Config      `json:"fit"`
	Metrics  metrics.Config  `json:"metrics"`
	Loads    []LoadConfig    `json:"loads"`
	// WindowSeconds is the measurement accumulation window per fit cycle.
	WindowSeconds int `json:"window_seconds"`
	// Workers bounds the number of concurrent fits.
	Workers int `json:"workers"`
}

// Load reads the configuration file, applies environment overrides with the
// ZF_ prefix and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The callback emits dot-separated
	// paths, so the provider must split on "." to reach nested keys.
	if err := k.Load(env.Provider("ZF_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "zf_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	c.Platform.SetDefaults()
	c.Fit.SetDefaults()
	c.Metrics.SetDefaults()
	if c.WindowSeconds == 0 {
		c.WindowSeconds = 60
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Fit.Validate(); err != nil {
		return err
	}
	for _, l := range c.Loads {
		if l.ID == "" {
			return fmt.Errorf("load id is required")
		}
		if l.NominalVoltage <= 0 {
			return fmt.Errorf("load %s: nominal voltage must be positive", l.ID)
		}
		if l.NominalPower < 0 {
			return fmt.Errorf("load %s: nominal power must not be negative", l.ID)
		}
	}
	return nil
}
