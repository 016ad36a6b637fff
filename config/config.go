package config

import (
	"runtime"

	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/validation"
)

// RewriteConfig configures pipeline expansion.
type RewriteConfig struct {
	Placeholder string `yaml:"placeholder" mapstructure:"placeholder" validate:"required,starident"`
	TempPrefix  string `yaml:"temp_prefix" mapstructure:"temp_prefix" validate:"required,starident,nefield=Placeholder"`
}

// SourceConfig configures call-site expansion in files.
type SourceConfig struct {
	Marker string `yaml:"marker" mapstructure:"marker" validate:"required,starident"`
	Verify bool   `yaml:"verify" mapstructure:"verify"`
}

// MaxWorkers bounds the number of files rewritten concurrently.
const MaxWorkers = 256

// Config is the complete starpipe configuration.
type Config struct {
	Rewrite RewriteConfig `yaml:"rewrite" mapstructure:"rewrite"`
	Source  SourceConfig  `yaml:"source" mapstructure:"source"`
	Workers int           `yaml:"workers" mapstructure:"workers"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Rewrite.Placeholder == "" {
		c.Rewrite.Placeholder = "_"
	}
	if c.Rewrite.TempPrefix == "" {
		c.Rewrite.TempPrefix = "__pipe"
	}
	if c.Source.Marker == "" {
		c.Source.Marker = "pipe"
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	c.Logging.ApplyDefaults()
}

// Validate checks every field and returns an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	v := validation.New().
		Distinct("source.marker", c.Source.Marker, "rewrite.placeholder", c.Rewrite.Placeholder).
		Range("workers", c.Workers, 1, MaxWorkers)
	if err := c.Logging.Validate(); err != nil {
		v.AddError("logging", err.Error())
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
