package config

import (
	"github.com/acme-corp/data-pipeline/async"
	"github.com/acme-corp/data-pipeline/errors"
	"github.com/acme-corp/data-pipeline/logger"
)

// Config is the root configuration for a pipeline process.
type Config struct {
	Name        string           `yaml:"name" mapstructure:"name"`
	Environment string           `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config    `yaml:"logging" mapstructure:"logging"`
	Pool        async.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "pipeline"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Pool.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return errors.InvalidConfig("environment must be one of [development, staging, production]").
			WithDetail("environment", c.Environment)
	}
	if c.Pool.Workers < 0 {
		return errors.InvalidConfig("pool.workers must not be negative").
			WithDetail("workers", c.Pool.Workers)
	}
	return nil
}
